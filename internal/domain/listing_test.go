package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestListing_ActiveOn(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, 10, 19, 23, 0, 0, 0, loc)

	assert.True(t, Listing{}.ActiveOn(now, loc))
	assert.True(t, Listing{Date: strPtr("")}.ActiveOn(now, loc))
	assert.True(t, Listing{Date: strPtr("someday")}.ActiveOn(now, loc))
	assert.True(t, Listing{Date: strPtr("2026-10-25")}.ActiveOn(now, loc))
	assert.True(t, Listing{Date: strPtr("2026-10-13")}.ActiveOn(now, loc))
	assert.False(t, Listing{Date: strPtr("2026-10-12")}.ActiveOn(now, loc))
	assert.False(t, Listing{Date: strPtr("2025-01-01")}.ActiveOn(now, loc))
}

func TestListing_ActiveOn_UsesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	// 02:00 UTC on the 20th is still the 19th in EST.
	now := time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC)
	assert.True(t, Listing{Date: strPtr("2026-10-13")}.ActiveOn(now, loc))
	assert.False(t, Listing{Date: strPtr("2026-10-13")}.ActiveOn(now, time.UTC))
}

func TestListing_Helpers(t *testing.T) {
	lat, lng, zero := 42.9, -85.6, 0.0
	assert.True(t, Listing{Lat: &lat, Lng: &lng}.HasCoordinates())
	assert.False(t, Listing{Lat: &lat}.HasCoordinates())
	assert.False(t, Listing{Lat: &zero, Lng: &lng}.HasCoordinates())
	assert.Equal(t, DefaultCategory, Listing{Category: " "}.CategoryOrDefault())
	assert.Equal(t, "Estate Sale", Listing{Category: "Estate Sale"}.CategoryOrDefault())
	assert.Equal(t, "", Listing{}.DateString())
}
