package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/session"
)

// Policy controls how the dashboard snapshot gets recomputed.
type Policy string

const (
	// PolicyManual recomputes only when a viewer asks.
	PolicyManual Policy = "manual"
	// PolicyInterval recomputes on a fixed schedule in the background.
	PolicyInterval Policy = "interval"
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyManual, PolicyInterval:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown dashboard refresh policy %q", s)
}

// Refresher drives background snapshot refreshes under PolicyInterval.
// Background refreshes run with a service session, not a staff one.
type Refresher struct {
	svc     *Service
	sess    *session.Session
	policy  Policy
	every   time.Duration
	timeout time.Duration
	log     logger.Logger
	cron    *cron.Cron
}

// NewRefresher creates a refresher. Under PolicyManual, Start is a no-op.
func NewRefresher(svc *Service, sess *session.Session, policy Policy, every time.Duration, log logger.Logger) *Refresher {
	return &Refresher{
		svc:     svc,
		sess:    sess,
		policy:  policy,
		every:   every,
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Start begins the background schedule when the policy asks for one.
func (r *Refresher) Start() error {
	if r.policy != PolicyInterval {
		return nil
	}
	if r.every <= 0 {
		return fmt.Errorf("interval refresh needs a positive period")
	}

	r.cron = cron.New()
	spec := fmt.Sprintf("@every %s", r.every)
	if _, err := r.cron.AddFunc(spec, r.Trigger); err != nil {
		return fmt.Errorf("failed to schedule dashboard refresh: %w", err)
	}
	r.cron.Start()
	r.log.Info("dashboard refresh scheduled", "every", r.every.String())
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// Trigger runs one refresh now. Failures are logged, not fatal: the dashboard
// keeps serving the previous snapshot.
func (r *Refresher) Trigger() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if _, err := r.svc.Refresh(ctx, r.sess); err != nil {
		r.log.Warn("dashboard refresh failed", "error", err)
	}
}
