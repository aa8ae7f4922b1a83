package board

import (
	"sort"
	"strings"
	"time"

	"yardsale-board/internal/domain"
)

// Snapshot is the active listing set as fetched at one point in time. It is never
// modified after construction; a fresh fetch produces a new Snapshot.
type Snapshot struct {
	listings  []domain.Listing
	fetchedAt time.Time
}

func NewSnapshot(listings []domain.Listing, fetchedAt time.Time) *Snapshot {
	cp := make([]domain.Listing, len(listings))
	copy(cp, listings)
	return &Snapshot{listings: cp, fetchedAt: fetchedAt}
}

func (s *Snapshot) Len() int {
	return len(s.listings)
}

func (s *Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// Listings returns a copy in fetch order.
func (s *Snapshot) Listings() []domain.Listing {
	cp := make([]domain.Listing, len(s.listings))
	copy(cp, s.listings)
	return cp
}

// Categories lists distinct categories in first-seen order, for the filter control.
func (s *Snapshot) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range s.listings {
		c := l.CategoryOrDefault()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Filter is the state of the search controls. Zero value matches everything.
type Filter struct {
	Query    string
	Category string
	Date     string
}

func (f Filter) normalized() Filter {
	return Filter{
		Query:    strings.ToLower(strings.TrimSpace(f.Query)),
		Category: strings.TrimSpace(f.Category),
		Date:     f.Date,
	}
}

// Match applies the three predicates, ANDed. Query is a case-insensitive substring of
// "title description"; category and date must match exactly when set.
func (f Filter) Match(l domain.Listing) bool {
	return matches(f.normalized(), l)
}

func matches(n Filter, l domain.Listing) bool {
	if n.Query != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.Description), n.Query) {
		return false
	}
	if n.Category != "" && l.Category != n.Category {
		return false
	}
	if n.Date != "" && l.DateString() != n.Date {
		return false
	}
	return true
}

// Apply filters the snapshot and orders the result for display.
func (s *Snapshot) Apply(f Filter) []domain.Listing {
	n := f.normalized()
	out := make([]domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if matches(n, l) {
			out = append(out, l)
		}
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay puts featured listings first, then orders by date string ascending.
// Listings without a date sort as "". Ties keep their prior order.
func SortForDisplay(ls []domain.Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Featured != ls[j].Featured {
			return ls[i].Featured
		}
		return ls[i].DateString() < ls[j].DateString()
	})
}
