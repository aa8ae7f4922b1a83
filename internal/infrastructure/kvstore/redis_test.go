package kvstore

import (
	"context"
	"testing"

	"yardsale-board/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &RedisStore{Rdb: rdb}, mr
}

func TestRedisStore_GetMissing(t *testing.T) {
	s, _ := setupStore(t)
	l, err := s.Get(context.Background(), "nope")
	assert.Nil(t, l)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestRedisStore_PutGetRoundTrip(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()
	date := "2026-10-24"
	lat := 42.96
	in := &domain.Listing{ID: "abc", Title: "Moving Sale", Date: &date, Lat: &lat, CreatedAt: 42}
	require.NoError(t, s.Put(ctx, in))
	assert.True(t, mr.Exists("listings:abc"))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestRedisStore_PutRequiresID(t *testing.T) {
	s, _ := setupStore(t)
	assert.Error(t, s.Put(context.Background(), &domain.Listing{}))
}

func TestRedisStore_ListSkipsForeignAndBrokenKeys(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, &domain.Listing{ID: id, Title: id}))
	}
	require.NoError(t, mr.Set("listings:broken", "{not json"))
	require.NoError(t, mr.Set("health:global:req_total", "5"))

	all, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, l := range all {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}
