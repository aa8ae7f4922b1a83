package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"yardsale-board/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// KeyPrefix namespaces listing blobs: listings:<id>.
	KeyPrefix = "listings:"
	scanBatch = 100
)

// RedisStore keeps one JSON blob per listing. Reads and writes are single-key;
// there is no compare-and-swap, so concurrent writers of the same key last-write-wins.
type RedisStore struct {
	Rdb *redis.Client
}

// Open parses a redis:// URL and returns a client. The connection is lazy.
func Open(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opt), nil
}

func key(id string) string {
	return KeyPrefix + id
}

// Get returns domain.ErrListingNotFound when the key is absent.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Listing, error) {
	b, err := s.Rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	var l domain.Listing
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", id, err)
	}
	return &l, nil
}

func (s *RedisStore) Put(ctx context.Context, l *domain.Listing) error {
	if l == nil || l.ID == "" {
		return errors.New("listing id is required")
	}
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if err := s.Rdb.Set(ctx, key(l.ID), b, 0).Err(); err != nil {
		return fmt.Errorf("put listing %s: %w", l.ID, err)
	}
	return nil
}

// List walks every listing key. Blobs that vanish between SCAN and MGET, or that
// fail to decode, are skipped.
func (s *RedisStore) List(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	var cursor uint64
	for {
		keys, next, err := s.Rdb.Scan(ctx, cursor, KeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan listings: %w", err)
		}
		if len(keys) > 0 {
			vals, err := s.Rdb.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("mget listings: %w", err)
			}
			for i, v := range vals {
				raw, ok := v.(string)
				if !ok {
					continue
				}
				var l domain.Listing
				if err := json.Unmarshal([]byte(raw), &l); err != nil {
					log.Warn().Err(err).Str("key", keys[i]).Msg("Skipping undecodable listing blob")
					continue
				}
				out = append(out, l)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}
