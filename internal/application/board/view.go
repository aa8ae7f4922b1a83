package board

import (
	"fmt"
	"strings"

	"yardsale-board/internal/domain"
)

const (
	DefaultPhotoURL = "https://picsum.photos/seed/yard/160/160"
	MaxFitZoom      = 15

	MarkerPin = "pin" // featured
	MarkerDot = "dot" // small gray circle
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Card struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Featured     bool   `json:"featured"`
	DateLine     string `json:"dateLine"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	Contact      string `json:"contact"`
	PhotoURL     string `json:"photoUrl"`
	HasLocation  bool   `json:"hasLocation"`
	FeatureLabel string `json:"featureLabel,omitempty"` // empty when already featured
}

type Marker struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position LatLng `json:"position"`
	Style    string `json:"style"`
	DateLine string `json:"dateLine"`
	Address  string `json:"address"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Bounds is the box around all markers; the map fits to it, capped at MaxFitZoom.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type ViewOptions struct {
	Center            LatLng
	FeaturePriceCents int64
}

// View is everything the board page renders for one filter state.
type View struct {
	Filter     Filter   `json:"filter"`
	Cards      []Card   `json:"cards"`
	Markers    []Marker `json:"markers"`
	Bounds     *Bounds  `json:"bounds,omitempty"`
	Center     LatLng   `json:"center"`
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}

// View filters and orders the snapshot, then derives list cards and map markers.
func (s *Snapshot) View(f Filter, opts ViewOptions) View {
	listings := s.Apply(f)
	v := View{
		Filter:     f,
		Cards:      make([]Card, 0, len(listings)),
		Markers:    []Marker{},
		Center:     opts.Center,
		Categories: s.Categories(),
		Total:      s.Len(),
	}
	featureLabel := "Feature (" + PriceLabel(opts.FeaturePriceCents) + ")"
	for _, l := range listings {
		card := Card{
			ID:          l.ID,
			Title:       l.Title,
			Featured:    l.Featured,
			DateLine:    DateLine(l),
			Category:    l.CategoryOrDefault(),
			Description: l.Description,
			Address:     l.Address,
			Contact:     l.Contact,
			PhotoURL:    l.PhotoURL,
			HasLocation: l.HasCoordinates(),
		}
		if card.PhotoURL == "" {
			card.PhotoURL = DefaultPhotoURL
		}
		if !l.Featured {
			card.FeatureLabel = featureLabel
		}
		v.Cards = append(v.Cards, card)

		if !l.HasCoordinates() {
			continue
		}
		m := Marker{
			ID:       l.ID,
			Title:    l.Title,
			Position: LatLng{Lat: *l.Lat, Lng: *l.Lng},
			Style:    MarkerDot,
			DateLine: DateLine(l),
			Address:  l.Address,
			PhotoURL: l.PhotoURL,
		}
		if l.Featured {
			m.Style = MarkerPin
		}
		v.Markers = append(v.Markers, m)
		v.Bounds = extend(v.Bounds, m.Position)
	}
	return v
}

func extend(b *Bounds, p LatLng) *Bounds {
	if b == nil {
		return &Bounds{South: p.Lat, North: p.Lat, West: p.Lng, East: p.Lng}
	}
	if p.Lat < b.South {
		b.South = p.Lat
	}
	if p.Lat > b.North {
		b.North = p.Lat
	}
	if p.Lng < b.West {
		b.West = p.Lng
	}
	if p.Lng > b.East {
		b.East = p.Lng
	}
	return b
}

// DateLine renders "2026-10-24 08:00–14:00"; times are cut to HH:MM.
func DateLine(l domain.Listing) string {
	line := l.DateString() + " " + hhmm(l.TimeStart)
	if l.TimeEnd != "" {
		line += "–" + hhmm(l.TimeEnd)
	}
	return strings.TrimSpace(line)
}

func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// PriceLabel formats cents as dollars, e.g. 700 -> "$7.00".
func PriceLabel(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
