// Package dates normalizes the mixed date spellings the admission backend
// emits and compares dates at day granularity.
package dates

import (
	"fmt"
	"time"
)

// Canonical is the wire format every date is normalized to.
const Canonical = "2006-01-02"

// fallbackLayouts are tried, in order, for inputs that are neither ISO nor
// slash-formatted.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-01-2006",
}

// Normalize accepts ISO (YYYY-MM-DD...), slash-formatted (DD/MM/YYYY) or any
// otherwise parseable date string and returns canonical YYYY-MM-DD.
// Unparseable input is passed through unchanged: the filter layer fails open,
// not closed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// ISO date or ISO timestamp: take the date part as-is.
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		if _, err := time.Parse(Canonical, s[:10]); err == nil {
			return s[:10]
		}
	}

	// DD/MM/YYYY
	if len(s) == 10 && s[2] == '/' && s[5] == '/' {
		if t, err := time.Parse("02/01/2006", s); err == nil {
			return t.Format(Canonical)
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(Canonical)
		}
	}

	return s
}

// ParseDay parses a canonical YYYY-MM-DD string as the start of that day in
// local time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(Canonical, Normalize(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return StartOfDay(t), nil
}

// StartOfDay strips the time of day, normalizing to local midnight.
func StartOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same calendar day in local time.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// IsFuture reports whether d falls on a calendar day after today (relative to
// now). Today itself is not future.
func IsFuture(d, now time.Time) bool {
	return StartOfDay(d).After(StartOfDay(now))
}
