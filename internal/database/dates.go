package database

import (
	"fmt"
	"strings"
	"time"
)

// DisplayDateLayout is the US display form used across the portal.
const DisplayDateLayout = "01/02/2006"

// TimestampLayout is the display form for review timestamps.
const TimestampLayout = "01/02/2006 3:04 PM"

var dateLayouts = []string{
	DisplayDateLayout,
	"2006-01-02",
	"1/2/2006",
}

// ParseDate parses a display date (MM/DD/YYYY) or a form date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// FormatDate formats t in the display form.
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// FormatTimestamp formats t in the review timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
