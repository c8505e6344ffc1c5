// Package fees submits admission fee records. Approval is out of scope here:
// the accounting role approves asynchronously, and admission only reads the
// resulting gate through the pipeline's fee status check.
package fees

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/admitdesk/backoffice/pkg/dates"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/session"
)

// amountEpsilon absorbs float drift when checking paying + due == total.
const amountEpsilon = 0.01

// Gateway is the slice of the backend client fee collection needs.
type Gateway interface {
	CreateFee(ctx context.Context, sess *session.Session, req models.CreateFeeRequest) (*models.AdmissionFee, error)
	FeeStatus(ctx context.Context, sess *session.Session, leadID string) (*models.FeeStatus, error)
}

// Service validates and submits admission fee records.
type Service struct {
	gw       Gateway
	validate *validator.Validate
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService creates the fee collection service.
func NewService(gw Gateway, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		gw:       gw,
		validate: validator.New(),
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Collect validates and submits one fee record. The record lands pending
// approval; nothing here admits the lead.
func (s *Service) Collect(ctx context.Context, sess *session.Session, req models.CreateFeeRequest) (*models.AdmissionFee, error) {
	if !sess.CanCollectFees() {
		return nil, domain.NewForbiddenError("your role cannot collect admission fees")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if math.Abs(req.NowPaying+req.DueAmount-req.TotalAmount) > amountEpsilon {
		return nil, domain.NewValidationError("paying amount plus due amount must equal the total amount")
	}

	req.PaymentDate = dates.Normalize(req.PaymentDate)
	day, err := dates.ParseDay(req.PaymentDate)
	if err != nil {
		return nil, domain.NewValidationError("payment date is not a recognizable date")
	}
	if dates.IsFuture(day, s.now()) {
		return nil, domain.NewValidationError("payment date cannot be in the future")
	}

	if req.DueAmount > 0 && req.NextPaymentDate == "" {
		return nil, domain.NewValidationError("a due amount needs a next payment date")
	}

	fee, err := s.gw.CreateFee(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordFeeCollected()
	s.log.Info("admission fee submitted",
		"leadId", req.LeadID,
		"method", req.Method,
		"nowPaying", req.NowPaying,
		"by", sess.UserID,
	)
	return fee, nil
}

// Status reads the admission gate for a lead.
func (s *Service) Status(ctx context.Context, sess *session.Session, leadID string) (*models.FeeStatus, error) {
	return s.gw.FeeStatus(ctx, sess, leadID)
}

var _ Gateway = (*gateway.Client)(nil)
