// Package history serves the single-lead detail view: the full follow-up log
// plus the actions available from the lead's current status. Detail reads are
// always fresh; the tab cache never backs this view.
package history

import (
	"context"
	"strings"

	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/pipeline"
	"github.com/admitdesk/backoffice/pkg/session"
)

// Gateway is the slice of the backend client the detail view needs.
type Gateway interface {
	LeadHistory(ctx context.Context, sess *session.Session, leadID string) (*lead.Lead, error)
	AddFollowUp(ctx context.Context, sess *session.Session, leadID string, req models.FollowUpRequest) (*lead.FollowUp, error)
}

// Pipeline executes transitions on behalf of the detail view.
type Pipeline interface {
	Transition(ctx context.Context, sess *session.Session, req pipeline.TransitionRequest) (*lead.Lead, error)
}

// Detail is a lead with its offered actions, shaped for the detail view.
type Detail struct {
	Lead    lead.Lead     `json:"lead"`
	Actions []lead.Action `json:"actions"`
}

// Service loads lead detail and applies actions against the freshly loaded
// status, so a lead moved by a colleague since the list was rendered gets the
// correct guards.
type Service struct {
	gw       Gateway
	pipeline Pipeline
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewService creates the lead detail service.
func NewService(gw Gateway, p Pipeline, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{gw: gw, pipeline: p, log: log, metrics: m}
}

// Load fetches one lead with its full follow-up log.
func (s *Service) Load(ctx context.Context, sess *session.Session, leadID string) (*Detail, error) {
	l, err := s.gw.LeadHistory(ctx, sess, leadID)
	if err != nil {
		return nil, err
	}
	return &Detail{Lead: *l, Actions: lead.ActionsFrom(l.Status)}, nil
}

// AddFollowUp appends a note to the lead's log without touching its status.
// Used from the detail view when the counselor records contact but the lead
// stays where it is.
func (s *Service) AddFollowUp(ctx context.Context, sess *session.Session, leadID string, req models.FollowUpRequest) (*lead.FollowUp, error) {
	if !sess.CanManageAdmissions() {
		return nil, domain.NewForbiddenError("your role cannot manage admission leads")
	}
	if strings.TrimSpace(req.Note) == "" && strings.TrimSpace(req.NextFollowUpDate) == "" {
		return nil, domain.NewValidationError("a follow-up needs a note or a next follow-up date")
	}
	if !req.Priority.Valid() {
		return nil, domain.NewValidationError("unknown priority")
	}

	fu, err := s.gw.AddFollowUp(ctx, sess, leadID, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordFollowUp()
	return fu, nil
}

// Apply executes a pipeline action from the detail view. The From status is
// read from a fresh detail load, not from whatever list the caller last saw.
func (s *Service) Apply(ctx context.Context, sess *session.Session, leadID string, action lead.Action, req pipeline.TransitionRequest) (*Detail, error) {
	current, err := s.gw.LeadHistory(ctx, sess, leadID)
	if err != nil {
		return nil, err
	}

	req.LeadID = leadID
	req.From = current.Status
	req.Action = action
	if _, err := s.pipeline.Transition(ctx, sess, req); err != nil {
		return nil, err
	}

	return s.Load(ctx, sess, leadID)
}
