package dates

import (
	"strings"
	"time"
)

// Layout is the canonical calendar-date format used in storage and files.
const Layout = "2006-01-02"

// Day drops the clock part of t, keeping its calendar date, in UTC.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// Parse reads a YYYY-MM-DD date; the empty string yields the zero time.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(Layout, raw, time.UTC)
}

// Stamp normalizes a timestamp to what both SQL engines store: UTC, microseconds.
func Stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Microsecond)
}
