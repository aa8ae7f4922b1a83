package domain

import (
	"strings"
	"time"
)

const (
	DefaultCategory      = "Garage Sale"
	MaxTitleLength       = 80
	MaxDescriptionLength = 600
	DateLayout           = "2006-01-02"

	// ActiveDays is how long after its date a listing stays visible.
	ActiveDays = 7
)

// Listing is the record stored in the listing store, one JSON blob per id.
// Field names match the browser client.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Date        *string  `json:"date"`
	TimeStart   string   `json:"timeStart"`
	TimeEnd     string   `json:"timeEnd"`
	Address     string   `json:"address"`
	Contact     string   `json:"contact"`
	PhotoURL    string   `json:"photoUrl"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Featured    bool     `json:"featured"`
	CreatedAt   int64    `json:"createdAt"`
}

// DateString returns the listing date or "" when absent.
func (l Listing) DateString() string {
	if l.Date == nil {
		return ""
	}
	return *l.Date
}

// CategoryOrDefault returns the category, falling back to DefaultCategory for blank values.
func (l Listing) CategoryOrDefault() string {
	if strings.TrimSpace(l.Category) == "" {
		return DefaultCategory
	}
	return l.Category
}

// HasCoordinates reports whether the listing can be placed on the map.
func (l Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil && *l.Lat != 0 && *l.Lng != 0
}

// ExpiresAt returns local midnight ActiveDays after the listing date.
// ok is false when the listing has no date or the date does not parse; such listings never expire.
func (l Listing) ExpiresAt(loc *time.Location) (t time.Time, ok bool) {
	if l.Date == nil || *l.Date == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, *l.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d.AddDate(0, 0, ActiveDays), true
}

// ActiveOn reports whether the listing is still visible on the day containing now.
// A listing dated exactly ActiveDays before today is no longer active.
func (l Listing) ActiveOn(now time.Time, loc *time.Location) bool {
	expires, ok := l.ExpiresAt(loc)
	if !ok {
		return true
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return expires.After(today)
}
