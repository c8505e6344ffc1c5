// Package reporting builds the admission dashboard: funnel counts, source and
// course breakdowns, the admissions-by-day series, and today's follow-up
// queue.
package reporting

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/admitdesk/backoffice/pkg/dates"
	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/session"
)

// Gateway is the slice of the backend client the dashboard needs.
type Gateway interface {
	ListLeads(ctx context.Context, sess *session.Session, q gateway.LeadQuery) ([]lead.Lead, error)
}

// DayCount is one point on the admissions-by-day series.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Snapshot is one computed dashboard state. GeneratedAt tells the viewer how
// stale they are looking at.
type Snapshot struct {
	GeneratedAt       time.Time           `json:"generatedAt"`
	StatusCounts      map[lead.Status]int `json:"statusCounts"`
	BySource          map[string]int      `json:"bySource"`
	ByCourse          map[string]int      `json:"byCourse"`
	AdmissionsByDay   []DayCount          `json:"admissionsByDay"`
	FollowUpsDueToday int                 `json:"followUpsDueToday"`
	TotalLeads        int                 `json:"totalLeads"`
}

// Service computes and caches the dashboard snapshot. The snapshot is only
// recomputed on Refresh; readers get the last computed state.
type Service struct {
	gw      Gateway
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu   sync.RWMutex
	last *Snapshot
}

// NewService creates the dashboard service.
func NewService(gw Gateway, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{gw: gw, log: log, metrics: m, now: time.Now}
}

// Snapshot returns the last computed snapshot, computing one on first use.
func (s *Service) Snapshot(ctx context.Context, sess *session.Session) (*Snapshot, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, nil
	}
	return s.Refresh(ctx, sess)
}

// Refresh recomputes the snapshot from a fresh full lead fetch.
func (s *Service) Refresh(ctx context.Context, sess *session.Session) (*Snapshot, error) {
	leads, err := s.gw.ListLeads(ctx, sess, gateway.LeadQuery{})
	if err != nil {
		return nil, err
	}

	snap := Aggregate(leads, s.now())

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	s.metrics.RecordDashboardRefresh()
	s.log.Debug("dashboard snapshot refreshed", "leads", len(leads))
	return snap, nil
}

// Aggregate computes a snapshot from a lead list. Pure; the clock is passed
// in so the follow-up-due count is testable.
func Aggregate(leads []lead.Lead, now time.Time) *Snapshot {
	snap := &Snapshot{
		GeneratedAt:  now,
		StatusCounts: make(map[lead.Status]int),
		BySource:     make(map[string]int),
		ByCourse:     make(map[string]int),
		TotalLeads:   len(leads),
	}

	byDay := make(map[string]int)
	for _, l := range leads {
		status, err := lead.ParseStatus(string(l.Status))
		if err != nil {
			status = l.Status
		}
		snap.StatusCounts[status]++

		if l.Source != "" {
			snap.BySource[l.Source]++
		}
		if l.InterestedCourse != "" {
			snap.ByCourse[l.InterestedCourse]++
		}

		if l.AdmittedAt != nil {
			byDay[dates.StartOfDay(*l.AdmittedAt).Format(dates.Canonical)]++
		}

		if next, err := dates.ParseDay(l.NextFollowUpDate); err == nil && dates.SameDay(next, now) {
			snap.FollowUpsDueToday++
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		snap.AdmissionsByDay = append(snap.AdmissionsByDay, DayCount{Day: day, Count: byDay[day]})
	}

	return snap
}
