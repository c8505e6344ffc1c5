package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/session"
)

var reportNow = time.Date(2026, 8, 27, 11, 0, 0, 0, time.Local)

func ts(day int) *time.Time {
	t := time.Date(2026, 8, day, 15, 30, 0, 0, time.Local)
	return &t
}

func reportLeads() []lead.Lead {
	return []lead.Lead{
		{LeadID: "LD-001", Status: lead.StatusAssigned, Source: "Facebook", InterestedCourse: "Graphics Design"},
		{LeadID: "LD-002", Status: lead.StatusCounseling, Source: "Facebook", InterestedCourse: "Web Development", NextFollowUpDate: "2026-08-27"},
		{LeadID: "LD-003", Status: lead.StatusInFollowUp, Source: "Walk In", InterestedCourse: "Graphics Design", NextFollowUpDate: "2026-08-28"},
		{LeadID: "LD-004", Status: lead.StatusAdmitted, Source: "Referral", InterestedCourse: "Web Development", AdmittedAt: ts(25)},
		{LeadID: "LD-005", Status: lead.StatusAdmitted, Source: "Website", InterestedCourse: "Motion Graphics", AdmittedAt: ts(25)},
		{LeadID: "LD-006", Status: "Not Admitted", Source: "Seminar"},
	}
}

func TestAggregate(t *testing.T) {
	snap := Aggregate(reportLeads(), reportNow)

	assert.Equal(t, 6, snap.TotalLeads)
	assert.Equal(t, 1, snap.StatusCounts[lead.StatusAssigned])
	assert.Equal(t, 2, snap.StatusCounts[lead.StatusAdmitted])
	assert.Equal(t, 1, snap.StatusCounts[lead.StatusNotInterested], "legacy Not Admitted folds into Not Interested")

	assert.Equal(t, 2, snap.BySource["Facebook"])
	assert.Equal(t, 2, snap.ByCourse["Graphics Design"])

	require.Len(t, snap.AdmissionsByDay, 1)
	assert.Equal(t, DayCount{Day: "2026-08-25", Count: 2}, snap.AdmissionsByDay[0])

	assert.Equal(t, 1, snap.FollowUpsDueToday)
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, reportNow)
	assert.Zero(t, snap.TotalLeads)
	assert.Empty(t, snap.AdmissionsByDay)
	assert.Zero(t, snap.FollowUpsDueToday)
}

type fakeGateway struct {
	leads []lead.Lead
	calls int
}

func (f *fakeGateway) ListLeads(_ context.Context, _ *session.Session, _ gateway.LeadQuery) ([]lead.Lead, error) {
	f.calls++
	return f.leads, nil
}

func TestSnapshotCaching(t *testing.T) {
	gw := &fakeGateway{leads: reportLeads()}
	svc := NewService(gw, logger.Default(), metrics.New())
	svc.now = func() time.Time { return reportNow }
	sess := session.Anonymous()

	first, err := svc.Snapshot(context.Background(), sess)
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background(), sess)
	require.NoError(t, err)

	assert.Same(t, first, second, "snapshot is served from the last computation")
	assert.Equal(t, 1, gw.calls)

	_, err = svc.Refresh(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.calls)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("interval")
	require.NoError(t, err)
	assert.Equal(t, PolicyInterval, p)

	_, err = ParsePolicy("hourly")
	assert.Error(t, err)
}

func TestRefresherManualPolicyDoesNotSchedule(t *testing.T) {
	gw := &fakeGateway{leads: reportLeads()}
	svc := NewService(gw, logger.Default(), metrics.New())
	r := NewRefresher(svc, session.Anonymous(), PolicyManual, time.Second, logger.Default())

	require.NoError(t, r.Start())
	r.Stop()
	assert.Zero(t, gw.calls)

	r.Trigger()
	assert.Equal(t, 1, gw.calls, "manual trigger still refreshes")
}
