package utils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted from clients: RFC 3339, HTML datetime-local and plain dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseClientTime parses a date or date-time sent by the dashboard. Values without a
// zone are read as UTC.
func ParseClientTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// FormatDisplayTime renders t for messages and emails, e.g. "Monday, February 12, 2024 at 10:00 AM UTC".
func FormatDisplayTime(t time.Time) string {
	return t.UTC().Format("Monday, January 2, 2006 at 3:04 PM MST")
}

// FormatDisplayDate renders only the date part.
func FormatDisplayDate(t time.Time) string {
	return t.UTC().Format("January 2, 2006")
}
