package pipeline

import (
	"strings"
	"time"

	"github.com/admitdesk/backoffice/pkg/dates"
	"github.com/admitdesk/backoffice/pkg/lead"
)

// FollowUpWindow restricts leads by their next-follow-up date relative to a
// reference day.
type FollowUpWindow string

const (
	WindowAll       FollowUpWindow = "all"
	WindowToday     FollowUpWindow = "today"
	WindowYesterday FollowUpWindow = "yesterday"
	WindowNextDay   FollowUpWindow = "nextday"
	WindowByDate    FollowUpWindow = "bydate"
)

// Filters narrows a lead list in memory. All criteria are ANDed; a zero
// Filters matches everything.
type Filters struct {
	Course     string
	Priority   lead.Priority
	Window     FollowUpWindow
	Date       string // only read when Window == WindowByDate
	SearchTerm string
}

// ApplyFilters returns the leads matching f, in input order. It is pure:
// the input slice is never mutated, and the same inputs always produce the
// same output. The date windows compare against now's day, passed in so
// callers (and tests) control the clock.
func ApplyFilters(leads []lead.Lead, f Filters, now time.Time) []lead.Lead {
	out := make([]lead.Lead, 0, len(leads))
	for _, l := range leads {
		if matches(&l, f, now) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l *lead.Lead, f Filters, now time.Time) bool {
	if f.Course != "" && !strings.EqualFold(l.InterestedCourse, f.Course) {
		return false
	}
	if f.Priority != "" && l.Priority != f.Priority {
		return false
	}
	if !matchesWindow(l, f, now) {
		return false
	}
	return l.MatchesSearch(f.SearchTerm)
}

func matchesWindow(l *lead.Lead, f Filters, now time.Time) bool {
	switch f.Window {
	case "", WindowAll:
		return true
	}

	// Every dated window excludes leads with no next follow-up on record.
	next, err := dates.ParseDay(l.NextFollowUpDate)
	if err != nil {
		return false
	}

	var target time.Time
	switch f.Window {
	case WindowToday:
		target = now
	case WindowYesterday:
		target = now.AddDate(0, 0, -1)
	case WindowNextDay:
		target = now.AddDate(0, 0, 1)
	case WindowByDate:
		parsed, err := dates.ParseDay(f.Date)
		if err != nil {
			return false
		}
		target = parsed
	default:
		return false
	}
	return dates.SameDay(next, target)
}
