package models

import (
	"strings"
	"time"
)

const (
	// DateLayout is used by date range filters.
	DateLayout = "2006-01-02"
	// InputLayout matches a datetime-local form input.
	InputLayout = "2006-01-02T15:04"
	// DisplayLayout is the pt-BR locale rendering.
	DisplayLayout = "02/01/2006, 15:04:05"
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	InputLayout,
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTimestamp accepts RFC 3339 and the zone-less layouts used by form
// inputs. Zone-less values are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCanonical renders the interchange format sent to the store.
func FormatCanonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDisplay renders t for humans, or "-" when t is absent.
func FormatDisplay(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}

// FormatInput renders t for a datetime-local input.
func FormatInput(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(InputLayout)
}
