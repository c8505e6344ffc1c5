package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/backoffice/pkg/lead"
)

var filterNow = time.Date(2026, 8, 27, 14, 30, 0, 0, time.Local)

func filterLeads() []lead.Lead {
	return []lead.Lead{
		{LeadID: "LD-001", Name: "Rahim Uddin", Phone: "+8801712345678", InterestedCourse: "Graphics Design", Priority: lead.PriorityVeryInterested, NextFollowUpDate: "2026-08-27"},
		{LeadID: "LD-002", Name: "Karima Akter", Phone: "+8801898765432", InterestedCourse: "Web Development", Priority: lead.PriorityInterested, NextFollowUpDate: "2026-08-26"},
		{LeadID: "LD-003", Name: "Tanvir Hasan", Phone: "+8801511122233", InterestedCourse: "Graphics Design", Priority: lead.PriorityFewInterested, NextFollowUpDate: "2026-08-28"},
		{LeadID: "LD-004", Name: "Nusrat Jahan", Phone: "+8801633344455", InterestedCourse: "Motion Graphics"},
	}
}

func idsOf(leads []lead.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.LeadID)
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"zero filters match everything", Filters{}, []string{"LD-001", "LD-002", "LD-003", "LD-004"}},
		{"by course, case-insensitive", Filters{Course: "graphics design"}, []string{"LD-001", "LD-003"}},
		{"by priority", Filters{Priority: lead.PriorityInterested}, []string{"LD-002"}},
		{"window today", Filters{Window: WindowToday}, []string{"LD-001"}},
		{"window yesterday", Filters{Window: WindowYesterday}, []string{"LD-002"}},
		{"window next day", Filters{Window: WindowNextDay}, []string{"LD-003"}},
		{"window by date", Filters{Window: WindowByDate, Date: "26/08/2026"}, []string{"LD-002"}},
		{"window by date without a date matches nothing", Filters{Window: WindowByDate}, []string{}},
		{"dated windows exclude leads with no next follow-up", Filters{Window: WindowToday, SearchTerm: "Nusrat"}, []string{}},
		{"search by name fragment", Filters{SearchTerm: "karima"}, []string{"LD-002"}},
		{"search by phone fragment", Filters{SearchTerm: "01712"}, []string{"LD-001"}},
		{"criteria are ANDed", Filters{Course: "Graphics Design", Window: WindowNextDay}, []string{"LD-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(filterLeads(), tt.filters, filterNow)
			assert.Equal(t, tt.want, idsOf(got))
		})
	}
}

func TestApplyFiltersIsPure(t *testing.T) {
	input := filterLeads()
	f := Filters{Course: "Graphics Design"}

	first := ApplyFilters(input, f, filterNow)
	second := ApplyFilters(input, f, filterNow)

	assert.Equal(t, idsOf(first), idsOf(second), "same inputs give same output")
	require.Len(t, input, 4, "input slice is not mutated")
	assert.Equal(t, "LD-001", input[0].LeadID)

	// Filtering the filtered output again changes nothing.
	third := ApplyFilters(first, f, filterNow)
	assert.Equal(t, idsOf(first), idsOf(third))
}

func TestWindowsFollowTheClock(t *testing.T) {
	leads := []lead.Lead{{LeadID: "LD-001", NextFollowUpDate: "2026-08-27"}}

	assert.Len(t, ApplyFilters(leads, Filters{Window: WindowToday}, filterNow), 1)

	dayLater := filterNow.AddDate(0, 0, 1)
	assert.Empty(t, ApplyFilters(leads, Filters{Window: WindowToday}, dayLater))
	assert.Len(t, ApplyFilters(leads, Filters{Window: WindowYesterday}, dayLater), 1)
}
