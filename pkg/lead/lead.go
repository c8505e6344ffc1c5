package lead

import (
	"strings"
	"time"
)

// Lead is a prospective student tracked through the admission funnel. The
// backend owns the record; this struct mirrors its wire shape.
type Lead struct {
	ID     string `json:"id"`
	LeadID string `json:"leadId"`

	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`

	InterestedCourse string `json:"interestedCourse,omitempty"`
	Source           string `json:"source,omitempty"`
	SpecialFilter    string `json:"specialFilter,omitempty"`

	Status Status `json:"status"`

	AssignedTo string     `json:"assignedTo,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`

	CounselingAt *time.Time `json:"counselingAt,omitempty"`
	AdmittedAt   *time.Time `json:"admittedAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`

	// Only meaningful when Status == StatusAdmitted.
	AdmittedToCourse string `json:"admittedToCourse,omitempty"`
	AdmittedToBatch  string `json:"admittedToBatch,omitempty"`

	// Append-only from this side; insertion order is chronological order.
	FollowUps []FollowUp `json:"followUps,omitempty"`

	// Mirrors of the latest follow-up, used for filtering only.
	Priority         Priority `json:"priority,omitempty"`
	NextFollowUpDate string   `json:"nextFollowUpDate,omitempty"`
}

// FollowUp is one timestamped contact note appended to a lead.
type FollowUp struct {
	At               time.Time `json:"at"`
	By               string    `json:"by,omitempty"`
	Note             string    `json:"note"`
	NextFollowUpDate string    `json:"nextFollowUpDate,omitempty"`
	Priority         Priority  `json:"priority,omitempty"`
}

// Priority is the interest level recorded with the latest follow-up.
type Priority string

const (
	PriorityVeryInterested Priority = "Very Interested"
	PriorityInterested     Priority = "Interested"
	PriorityFewInterested  Priority = "Few Interested"
	PriorityNotInterested  Priority = "Not Interested"
)

// Priorities lists the valid priority values in display order.
func Priorities() []Priority {
	return []Priority{
		PriorityVeryInterested,
		PriorityInterested,
		PriorityFewInterested,
		PriorityNotInterested,
	}
}

// Valid reports whether p is a known priority. The empty value is allowed
// (leads with no follow-ups have no priority yet).
func (p Priority) Valid() bool {
	if p == "" {
		return true
	}
	for _, known := range Priorities() {
		if p == known {
			return true
		}
	}
	return false
}

// LatestFollowUp returns the most recently appended follow-up, or nil.
func (l *Lead) LatestFollowUp() *FollowUp {
	if len(l.FollowUps) == 0 {
		return nil
	}
	return &l.FollowUps[len(l.FollowUps)-1]
}

// MatchesSearch reports whether term (case-insensitive substring) matches any
// of the lead's searchable fields.
func (l *Lead) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{l.LeadID, l.Name, l.Phone, l.Email, l.InterestedCourse, l.AssignedTo} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
