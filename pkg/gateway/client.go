// Package gateway is the typed client for the admission backend's REST API.
// It owns request shaping and uniform error translation; it holds no state
// beyond the connection, and it never retries — re-fetch-after-mutate
// consistency is the caller's job.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/admitdesk/backoffice/pkg/dates"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/session"
)

// Client issues authenticated HTTP calls to the admission backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit throttles outbound calls to rps requests per second.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithMetrics records per-operation call metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a gateway client for the given base URL. Timeouts are
// whatever the supplied HTTP client enforces; no policy is layered on here.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    http.DefaultClient,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LeadQuery are the optional filters for listing leads. Zero-valued fields
// are omitted from the query string, not sent empty.
type LeadQuery struct {
	Status lead.Status
	UserID string
	From   string // any parseable date; normalized to YYYY-MM-DD
	To     string
}

// ListLeads fetches all leads currently in a given status (or all, when the
// query is zero).
func (c *Client) ListLeads(ctx context.Context, sess *session.Session, q LeadQuery) ([]lead.Lead, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.UserID != "" {
		query.Set("userId", q.UserID)
	}
	if q.From != "" {
		query.Set("from", dates.Normalize(q.From))
	}
	if q.To != "" {
		query.Set("to", dates.Normalize(q.To))
	}

	var out models.LeadListResponse
	if err := c.do(ctx, sess, "list leads", http.MethodGet, "/api/admission/leads", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Leads, nil
}

// LeadHistory fetches a single lead with its full follow-up log, fresh.
func (c *Client) LeadHistory(ctx context.Context, sess *session.Session, leadID string) (*lead.Lead, error) {
	var out models.LeadHistoryResponse
	path := fmt.Sprintf("/api/leads/%s/history", url.PathEscape(leadID))
	if err := c.do(ctx, sess, "load lead history", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Lead, nil
}

// UpdateLeadStatus executes a status transition.
func (c *Client) UpdateLeadStatus(ctx context.Context, sess *session.Session, leadID string, req models.UpdateStatusRequest) (*lead.Lead, error) {
	if req.NextFollowUpDate != "" {
		req.NextFollowUpDate = dates.Normalize(req.NextFollowUpDate)
	}
	var out lead.Lead
	path := fmt.Sprintf("/api/admission/leads/%s/status", url.PathEscape(leadID))
	if err := c.do(ctx, sess, "update lead status", http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddFollowUp appends a follow-up entry. It does not change the lead's
// status; only UpdateLeadStatus does that.
func (c *Client) AddFollowUp(ctx context.Context, sess *session.Session, leadID string, req models.FollowUpRequest) (*lead.FollowUp, error) {
	if req.NextFollowUpDate != "" {
		req.NextFollowUpDate = dates.Normalize(req.NextFollowUpDate)
	}
	var out lead.FollowUp
	path := fmt.Sprintf("/api/admission/leads/%s/follow-up", url.PathEscape(leadID))
	if err := c.do(ctx, sess, "add follow-up", http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeeStatus reads the admission gate for a lead.
func (c *Client) FeeStatus(ctx context.Context, sess *session.Session, leadID string) (*models.FeeStatus, error) {
	var out models.FeeStatus
	path := fmt.Sprintf("/api/admission/fees/status/%s", url.PathEscape(leadID))
	if err := c.do(ctx, sess, "check fee status", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFee submits a fee record; it lands pending approval.
func (c *Client) CreateFee(ctx context.Context, sess *session.Session, req models.CreateFeeRequest) (*models.AdmissionFee, error) {
	req.PaymentDate = dates.Normalize(req.PaymentDate)
	if req.NextPaymentDate != "" {
		req.NextPaymentDate = dates.Normalize(req.NextPaymentDate)
	}
	var out models.AdmissionFee
	if err := c.do(ctx, sess, "create admission fee", http.MethodPost, "/api/admission/fees", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCourses fetches the course selection list for the admit dialog.
func (c *Client) ListCourses(ctx context.Context, sess *session.Session) ([]models.Course, error) {
	var out models.CourseListResponse
	if err := c.do(ctx, sess, "list courses", http.MethodGet, "/api/courses", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// ListBatches fetches batches, optionally filtered by status (e.g. "Active").
func (c *Client) ListBatches(ctx context.Context, sess *session.Session, status string) ([]models.Batch, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var out models.BatchListResponse
	if err := c.do(ctx, sess, "list batches", http.MethodGet, "/api/batches", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Batches, nil
}

// do issues one request. Fire-once: no retry, no idempotency layer.
func (c *Client) do(ctx context.Context, sess *session.Session, operation, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewTransportError(operation, err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.NewInternalError(fmt.Errorf("encode %s request: %w", operation, err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("create %s request: %w", operation, err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordGatewayCall(operation, 0, time.Since(start))
		return domain.NewTransportError(operation, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordGatewayCall(operation, resp.StatusCode, time.Since(start))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError(operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return translateError(operation, resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		// Fail soft on unparseable success bodies (204-style responses):
		// empty result, not an error.
		c.log.Debug("unparseable success body treated as empty", "operation", operation, "status", resp.StatusCode)
	}
	return nil
}

// translateError turns a non-2xx response into a single error carrying a
// human-readable message: the server's own message when parseable, a generic
// "<operation> failed (<status>)" otherwise.
func translateError(operation string, status int, payload []byte) error {
	msg := fmt.Sprintf("%s failed (%d)", operation, status)

	var parsed models.ErrorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			msg = parsed.Message
		case parsed.Code != "":
			msg = parsed.Code
		case parsed.Error != "":
			msg = parsed.Error
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return &domain.DomainError{Code: domain.ErrCodeUnauthorized, Message: msg}
	case http.StatusForbidden:
		return &domain.DomainError{Code: domain.ErrCodeForbidden, Message: msg}
	case http.StatusNotFound:
		return &domain.DomainError{Code: domain.ErrCodeNotFound, Message: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.DomainError{Code: domain.ErrCodeValidation, Message: msg}
	default:
		return domain.NewUpstreamError(msg, status)
	}
}
