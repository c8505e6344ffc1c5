package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/pipeline"
	"github.com/admitdesk/backoffice/pkg/session"
)

type fakeGateway struct {
	lead       *lead.Lead
	historyErr error
	followUps  []models.FollowUpRequest
}

func (f *fakeGateway) LeadHistory(_ context.Context, _ *session.Session, _ string) (*lead.Lead, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	copied := *f.lead
	return &copied, nil
}

func (f *fakeGateway) AddFollowUp(_ context.Context, _ *session.Session, _ string, req models.FollowUpRequest) (*lead.FollowUp, error) {
	f.followUps = append(f.followUps, req)
	return &lead.FollowUp{At: time.Now(), Note: req.Note}, nil
}

type fakePipeline struct {
	requests []pipeline.TransitionRequest
	err      error
	onApply  func()
}

func (f *fakePipeline) Transition(_ context.Context, _ *session.Session, req pipeline.TransitionRequest) (*lead.Lead, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.onApply != nil {
		f.onApply()
	}
	target, err := lead.NextStatus(req.From, req.Action)
	if err != nil {
		return nil, err
	}
	return &lead.Lead{LeadID: req.LeadID, Status: target}, nil
}

func counselorSession() *session.Session {
	return &session.Session{Token: "t", UserID: "u-1", Role: session.RoleAdmission}
}

func newTestService(gw *fakeGateway, p *fakePipeline) *Service {
	return NewService(gw, p, logger.Default(), metrics.New())
}

func TestLoad(t *testing.T) {
	t.Run("returns the lead with its offered actions", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{
			LeadID: "LD-001",
			Status: lead.StatusCounseling,
			FollowUps: []lead.FollowUp{
				{At: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC), Note: "first call"},
			},
		}}
		svc := newTestService(gw, &fakePipeline{})

		detail, err := svc.Load(context.Background(), counselorSession(), "LD-001")
		require.NoError(t, err)
		assert.Equal(t, "LD-001", detail.Lead.LeadID)
		assert.Len(t, detail.Lead.FollowUps, 1)
		assert.ElementsMatch(t, []lead.Action{lead.ActionAdmit, lead.ActionFollowUp, lead.ActionNotInterested}, detail.Actions)
	})

	t.Run("terminal lead offers no actions", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-002", Status: lead.StatusAdmitted}}
		svc := newTestService(gw, &fakePipeline{})

		detail, err := svc.Load(context.Background(), counselorSession(), "LD-002")
		require.NoError(t, err)
		assert.Empty(t, detail.Actions)
	})

	t.Run("not found surfaces as is", func(t *testing.T) {
		gw := &fakeGateway{historyErr: domain.NewNotFoundError("lead")}
		svc := newTestService(gw, &fakePipeline{})

		_, err := svc.Load(context.Background(), counselorSession(), "LD-404")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestAddFollowUp(t *testing.T) {
	t.Run("appends without touching status", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-001", Status: lead.StatusInFollowUp}}
		p := &fakePipeline{}
		svc := newTestService(gw, p)

		_, err := svc.AddFollowUp(context.Background(), counselorSession(), "LD-001", models.FollowUpRequest{Note: "asked to call back Tuesday"})
		require.NoError(t, err)
		assert.Len(t, gw.followUps, 1)
		assert.Empty(t, p.requests, "no transition goes out for a plain note")
	})

	t.Run("rejects an empty note with no date", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-001", Status: lead.StatusInFollowUp}}
		svc := newTestService(gw, &fakePipeline{})

		_, err := svc.AddFollowUp(context.Background(), counselorSession(), "LD-001", models.FollowUpRequest{Note: "  "})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, gw.followUps)
	})

	t.Run("rejects roles without admissions access", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-001", Status: lead.StatusInFollowUp}}
		svc := newTestService(gw, &fakePipeline{})

		_, err := svc.AddFollowUp(context.Background(), &session.Session{Token: "t", Role: session.RoleMotion}, "LD-001", models.FollowUpRequest{Note: "hi"})
		assert.True(t, domain.IsForbidden(err))
	})
}

func TestApply(t *testing.T) {
	t.Run("uses the freshly loaded status, not the caller's stale view", func(t *testing.T) {
		// The lead moved to Counseling since the list was rendered.
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-001", Status: lead.StatusCounseling}}
		p := &fakePipeline{}
		p.onApply = func() {
			gw.lead.Status = lead.StatusInFollowUp
		}
		svc := newTestService(gw, p)

		detail, err := svc.Apply(context.Background(), counselorSession(), "LD-001", lead.ActionFollowUp, pipeline.TransitionRequest{
			Notes: "will visit campus",
		})
		require.NoError(t, err)

		require.Len(t, p.requests, 1)
		assert.Equal(t, lead.StatusCounseling, p.requests[0].From, "From comes from the fresh load")
		assert.Equal(t, lead.StatusInFollowUp, detail.Lead.Status)
	})

	t.Run("transition failure propagates without a reload", func(t *testing.T) {
		gw := &fakeGateway{lead: &lead.Lead{LeadID: "LD-001", Status: lead.StatusCounseling}}
		p := &fakePipeline{err: domain.NewFeeNotApprovedError("")}
		svc := newTestService(gw, p)

		_, err := svc.Apply(context.Background(), counselorSession(), "LD-001", lead.ActionAdmit, pipeline.TransitionRequest{
			CourseID: "c1", BatchID: "b1",
		})
		assert.True(t, domain.IsFeeNotApproved(err))
	})
}
