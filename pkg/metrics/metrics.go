package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics (staff-facing server)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Gateway metrics (calls against the admission backend)
	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec

	// Business metrics
	TransitionsTotal   *prometheus.CounterVec
	FollowUpsRecorded  prometheus.Counter
	FeesCollected      prometheus.Counter
	ExportsCreated     prometheus.Counter
	DashboardRefreshes prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry, so multiple
// instances (one per test) never fight over registration.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		GatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Total number of requests issued to the admission backend",
			},
			[]string{"operation", "status"},
		),
		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Admission backend request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_transitions_total",
				Help: "Total number of pipeline transitions attempted",
			},
			[]string{"action", "outcome"}, // ok, blocked, error
		),
		FollowUpsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "follow_ups_recorded_total",
			Help: "Total number of follow-up entries recorded",
		}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "admission_fees_collected_total",
			Help: "Total number of admission fee records submitted",
		}),
		ExportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "exports_created_total",
			Help: "Total number of lead exports created",
		}),
		DashboardRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_refreshes_total",
			Help: "Total number of dashboard snapshot refreshes",
		}),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"store"}, // memory, redis
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"store"},
		),
	}
}

// Handler serves this instance's registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware creates an Echo middleware recording request counts and latency
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw URL

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordGatewayCall records one request against the admission backend
func (m *Metrics) RecordGatewayCall(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.GatewayRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.GatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTransition records a pipeline transition attempt and its outcome
func (m *Metrics) RecordTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordFollowUp increments the follow-ups recorded counter
func (m *Metrics) RecordFollowUp() {
	if m == nil {
		return
	}
	m.FollowUpsRecorded.Inc()
}

// RecordFeeCollected increments the fees collected counter
func (m *Metrics) RecordFeeCollected() {
	if m == nil {
		return
	}
	m.FeesCollected.Inc()
}

// RecordExportCreated increments the exports created counter
func (m *Metrics) RecordExportCreated() {
	if m == nil {
		return
	}
	m.ExportsCreated.Inc()
}

// RecordDashboardRefresh increments the dashboard refresh counter
func (m *Metrics) RecordDashboardRefresh() {
	if m == nil {
		return
	}
	m.DashboardRefreshes.Inc()
}

// RecordCacheHit increments the cache hit counter for a store
func (m *Metrics) RecordCacheHit(store string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(store).Inc()
}

// RecordCacheMiss increments the cache miss counter for a store
func (m *Metrics) RecordCacheMiss(store string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(store).Inc()
}
