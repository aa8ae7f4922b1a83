package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate_CountsRunes(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 80))
	assert.Equal(t, strings.Repeat("é", 80), Truncate(strings.Repeat("é", 100), 80))
	assert.Equal(t, "", Truncate("", 10))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2026-10-19"))
	assert.False(t, IsValidDate("10/19/2026"))
	assert.False(t, IsValidDate("2026-02-30"))
	assert.False(t, IsValidDate(""))
}

func TestIsValidTimeOfDay(t *testing.T) {
	assert.True(t, IsValidTimeOfDay("08:00"))
	assert.True(t, IsValidTimeOfDay("23:59:00"))
	assert.False(t, IsValidTimeOfDay("24:00"))
	assert.False(t, IsValidTimeOfDay("8am"))
}

func TestIsImageFileName(t *testing.T) {
	assert.True(t, IsImageFileName("couch.JPG"))
	assert.True(t, IsImageFileName("table.webp"))
	assert.False(t, IsImageFileName("notes.pdf"))
	assert.False(t, IsImageFileName("noext"))
}
