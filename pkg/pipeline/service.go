// Package pipeline drives the admission funnel: loading the per-status tabs,
// filtering them, and executing guarded transitions against the backend.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/admitdesk/backoffice/pkg/cache"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/session"
)

// Gateway is the slice of the backend client the pipeline needs.
type Gateway interface {
	ListLeads(ctx context.Context, sess *session.Session, q gateway.LeadQuery) ([]lead.Lead, error)
	UpdateLeadStatus(ctx context.Context, sess *session.Session, leadID string, req models.UpdateStatusRequest) (*lead.Lead, error)
	AddFollowUp(ctx context.Context, sess *session.Session, leadID string, req models.FollowUpRequest) (*lead.FollowUp, error)
	FeeStatus(ctx context.Context, sess *session.Session, leadID string) (*models.FeeStatus, error)
	ListCourses(ctx context.Context, sess *session.Session) ([]models.Course, error)
	ListBatches(ctx context.Context, sess *session.Session, status string) ([]models.Batch, error)
}

// TransitionRequest carries everything a single pipeline action needs. Which
// fields are required depends on the action; Transition validates before any
// request goes out.
type TransitionRequest struct {
	LeadID   string      `validate:"required"`
	From     lead.Status `validate:"required"`
	Action   lead.Action `validate:"required"`
	Notes    string
	CourseID string
	BatchID  string
	// Follow-up fields, read when Action == ActionFollowUp.
	NextFollowUpDate string
	Priority         lead.Priority
}

// Service is the pipeline controller. It owns the cache policy and the
// transition guards; it holds no lead state of its own.
type Service struct {
	gw       Gateway
	store    cache.Store
	validate *validator.Validate
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	// One transition per lead at a time; duplicate submissions bounce.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates the pipeline controller.
func NewService(gw Gateway, store cache.Store, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		gw:       gw,
		store:    store,
		validate: validator.New(),
		log:      log,
		metrics:  m,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// LoadLeads returns the leads for one status tab, serving from cache when a
// fresh entry exists. Filters always apply to the full fetched list, cached
// or not.
func (s *Service) LoadLeads(ctx context.Context, sess *session.Session, tab lead.Status, f Filters) ([]lead.Lead, error) {
	leads, ok := s.store.Get(ctx, tab)
	if !ok {
		fetched, err := s.gw.ListLeads(ctx, sess, gateway.LeadQuery{Status: tab})
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, tab, fetched); err != nil {
			s.log.Warn("failed to cache leads", "tab", string(tab), "error", err)
		}
		leads = fetched
	}
	return ApplyFilters(leads, f, s.now()), nil
}

// Refresh drops the cached entry for a tab and reloads it from the backend.
func (s *Service) Refresh(ctx context.Context, sess *session.Session, tab lead.Status, f Filters) ([]lead.Lead, error) {
	if err := s.store.Invalidate(ctx, tab); err != nil {
		s.log.Warn("failed to invalidate cached leads", "tab", string(tab), "error", err)
	}
	return s.LoadLeads(ctx, sess, tab, f)
}

// Transition executes one pipeline action. Guards run in order: duplicate
// submission, transition table, role, per-action requirements, and (for
// admit) the fee gate. No status request is issued unless every guard passes,
// and the local lists are never mutated optimistically — success invalidates
// the affected tabs so the next load re-fetches.
func (s *Service) Transition(ctx context.Context, sess *session.Session, req TransitionRequest) (*lead.Lead, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if !s.begin(req.LeadID) {
		s.metrics.RecordTransition(string(req.Action), "blocked")
		return nil, domain.NewActionInFlightError(req.LeadID)
	}
	defer s.end(req.LeadID)

	target, err := lead.NextStatus(req.From, req.Action)
	if err != nil {
		s.metrics.RecordTransition(string(req.Action), "blocked")
		return nil, domain.NewInvalidTransitionError(string(req.From), string(req.Action))
	}

	if !sess.CanManageAdmissions() {
		s.metrics.RecordTransition(string(req.Action), "blocked")
		return nil, domain.NewForbiddenError("your role cannot manage admission leads")
	}

	if err := s.guardAction(ctx, sess, &req); err != nil {
		s.metrics.RecordTransition(string(req.Action), "blocked")
		return nil, err
	}

	// A follow-up writes the log entry first; the status move rides behind it.
	if req.Action == lead.ActionFollowUp {
		_, err := s.gw.AddFollowUp(ctx, sess, req.LeadID, models.FollowUpRequest{
			Note:             req.Notes,
			NextFollowUpDate: req.NextFollowUpDate,
			Priority:         req.Priority,
		})
		if err != nil {
			s.metrics.RecordTransition(string(req.Action), "error")
			return nil, err
		}
		s.metrics.RecordFollowUp()
	}

	updated, err := s.gw.UpdateLeadStatus(ctx, sess, req.LeadID, models.UpdateStatusRequest{
		Status:           target,
		Notes:            req.Notes,
		CourseID:         req.CourseID,
		BatchID:          req.BatchID,
		NextFollowUpDate: req.NextFollowUpDate,
	})
	if err != nil {
		s.metrics.RecordTransition(string(req.Action), "error")
		return nil, err
	}

	s.invalidateTabs(ctx, req.From, target)
	s.metrics.RecordTransition(string(req.Action), "ok")
	s.log.Info("lead transitioned",
		"leadId", req.LeadID,
		"from", string(req.From),
		"to", string(target),
		"action", string(req.Action),
		"by", sess.UserID,
	)
	return updated, nil
}

// guardAction enforces the per-action requirements that the transition table
// cannot express.
func (s *Service) guardAction(ctx context.Context, sess *session.Session, req *TransitionRequest) error {
	switch req.Action {
	case lead.ActionFollowUp:
		if strings.TrimSpace(req.Notes) == "" && strings.TrimSpace(req.NextFollowUpDate) == "" {
			return domain.NewValidationError("a follow-up needs a note or a next follow-up date")
		}
		if !req.Priority.Valid() {
			return domain.NewValidationError("unknown priority")
		}

	case lead.ActionAdmit:
		if req.CourseID == "" || req.BatchID == "" {
			return domain.NewValidationError("admitting a lead requires a course and a batch")
		}
		fs, err := s.gw.FeeStatus(ctx, sess, req.LeadID)
		if err != nil {
			return err
		}
		if !fs.HasApprovedFee {
			return domain.NewFeeNotApprovedError(fs.Message)
		}
	}
	return nil
}

// CheckFeeStatus exposes the admission gate read for the admit dialog.
func (s *Service) CheckFeeStatus(ctx context.Context, sess *session.Session, leadID string) (*models.FeeStatus, error) {
	return s.gw.FeeStatus(ctx, sess, leadID)
}

// AdmitOptions returns the course and active-batch selection lists for the
// admit dialog.
func (s *Service) AdmitOptions(ctx context.Context, sess *session.Session) ([]models.Course, []models.Batch, error) {
	courses, err := s.gw.ListCourses(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	batches, err := s.gw.ListBatches(ctx, sess, "Active")
	if err != nil {
		return nil, nil, err
	}
	return courses, batches, nil
}

func (s *Service) begin(leadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[leadID]; busy {
		return false
	}
	s.inFlight[leadID] = struct{}{}
	return true
}

func (s *Service) end(leadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, leadID)
}

func (s *Service) invalidateTabs(ctx context.Context, tabs ...lead.Status) {
	seen := make(map[lead.Status]struct{}, len(tabs))
	for _, tab := range tabs {
		if _, done := seen[tab]; done {
			continue
		}
		seen[tab] = struct{}{}
		if err := s.store.Invalidate(ctx, tab); err != nil {
			s.log.Warn("failed to invalidate cached leads", "tab", string(tab), "error", err)
		}
	}
}
