package validation

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

// IsBlank is true for empty or whitespace-only strings.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate accepts calendar dates in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidTimeOfDay accepts HH:MM or HH:MM:SS (what <input type="time"> submits).
func IsValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// IsImageFileName checks the extension of an uploaded photo.
func IsImageFileName(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
