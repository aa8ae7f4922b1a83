package listings

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"yardsale-board/internal/domain"
	"yardsale-board/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store persists listings by id. Get returns domain.ErrListingNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Put(ctx context.Context, l *domain.Listing) error
	List(ctx context.Context) ([]domain.Listing, error)
}

// EventRecorder receives lifecycle events for the audit ledger. Optional.
type EventRecorder interface {
	RecordEvent(ctx context.Context, listingID, eventType string, data map[string]interface{}) error
}

type Service struct {
	Store    Store
	Events   EventRecorder
	Location *time.Location
	Now      func() time.Time
}

type CreateListingInput struct {
	Title       string
	Description string
	Category    string
	Date        string
	TimeStart   string
	TimeEnd     string
	Address     string
	Contact     string
	PhotoURL    string
	Lat         *float64
	Lng         *float64
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate checks required fields in the order title, address, category, date.
func (in CreateListingInput) Validate() error {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"address", in.Address},
		{"category", in.Category},
		{"date", in.Date},
	}
	for _, f := range required {
		if validation.IsBlank(f.value) {
			return domain.MissingField(f.name)
		}
	}
	if !validation.IsValidDate(strings.TrimSpace(in.Date)) {
		return &domain.ValidationError{Field: "date", Message: "date must be formatted YYYY-MM-DD"}
	}
	if in.TimeStart != "" && !validation.IsValidTimeOfDay(in.TimeStart) {
		return &domain.ValidationError{Field: "timeStart", Message: "timeStart must be formatted HH:MM"}
	}
	if in.TimeEnd != "" && !validation.IsValidTimeOfDay(in.TimeEnd) {
		return &domain.ValidationError{Field: "timeEnd", Message: "timeEnd must be formatted HH:MM"}
	}
	return nil
}

// CreateListing validates the submission, stores a new unfeatured listing and returns its id.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	date := strings.TrimSpace(in.Date)
	listing := &domain.Listing{
		ID:          uuid.New().String(),
		Title:       validation.Truncate(strings.TrimSpace(in.Title), domain.MaxTitleLength),
		Description: validation.Truncate(in.Description, domain.MaxDescriptionLength),
		Category:    strings.TrimSpace(in.Category),
		Date:        &date,
		TimeStart:   in.TimeStart,
		TimeEnd:     in.TimeEnd,
		Address:     strings.TrimSpace(in.Address),
		Contact:     in.Contact,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Lat:         in.Lat,
		Lng:         in.Lng,
		Featured:    false,
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := s.Store.Put(ctx, listing); err != nil {
		return "", err
	}
	s.record(ctx, listing.ID, domain.EventCreated, map[string]interface{}{
		"title":    listing.Title,
		"date":     date,
		"category": listing.Category,
	})
	return listing.ID, nil
}

// GetListing returns domain.ErrListingNotFound for unknown ids.
func (s *Service) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrListingNotFound
	}
	return s.Store.Get(ctx, id)
}

// ListActive returns listings that have not expired, featured first, then newest first.
func (s *Service) ListActive(ctx context.Context) ([]domain.Listing, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := make([]domain.Listing, 0, len(all))
	for _, l := range all {
		if !l.ActiveOn(now, s.Location) {
			continue
		}
		l.Category = l.CategoryOrDefault()
		active = append(active, l)
	}
	SortByFeaturedThenNewest(active)
	return active, nil
}

// SortByFeaturedThenNewest is the server-side order of the listings endpoint.
func SortByFeaturedThenNewest(ls []domain.Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Featured != ls[j].Featured {
			return ls[i].Featured
		}
		return ls[i].CreatedAt > ls[j].CreatedAt
	})
}

// MarkFeatured flips featured to true. It reports whether a write happened;
// an already featured listing is left untouched.
func (s *Service) MarkFeatured(ctx context.Context, id string) (bool, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return false, err
	}
	if listing.Featured {
		return false, nil
	}
	listing.Featured = true
	if err := s.Store.Put(ctx, listing); err != nil {
		return false, err
	}
	s.record(ctx, listing.ID, domain.EventFeatured, nil)
	return true, nil
}

func (s *Service) record(ctx context.Context, listingID, eventType string, data map[string]interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.RecordEvent(ctx, listingID, eventType, data); err != nil {
		log.Warn().Err(err).Str("listing_id", listingID).Str("event_type", eventType).Msg("Failed to record listing event")
	}
}

// IsNotFound reports whether err means the listing does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrListingNotFound)
}
