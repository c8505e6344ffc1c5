package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/admitdesk/backoffice/config"
	"github.com/admitdesk/backoffice/pkg/api/handlers"
	apimw "github.com/admitdesk/backoffice/pkg/api/middleware"
	"github.com/admitdesk/backoffice/pkg/cache"
	"github.com/admitdesk/backoffice/pkg/fees"
	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/history"
	"github.com/admitdesk/backoffice/pkg/logger"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/middleware"
	"github.com/admitdesk/backoffice/pkg/phone"
	"github.com/admitdesk/backoffice/pkg/pipeline"
	"github.com/admitdesk/backoffice/pkg/reporting"
	"github.com/admitdesk/backoffice/pkg/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.1,
		})
		if err != nil {
			log.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	m := metrics.New()

	store, err := buildCacheStore(cfg, m, log)
	if err != nil {
		log.Error("cache init failed", "error", err)
		os.Exit(1)
	}

	gw := gateway.NewClient(cfg.BackendBaseURL,
		gateway.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		gateway.WithRateLimit(cfg.GatewayRequestsPerSecond),
		gateway.WithMetrics(m),
		gateway.WithLogger(log),
	)

	pipelineSvc := pipeline.NewService(gw, store, log, m)
	historySvc := history.NewService(gw, pipelineSvc, log, m)
	feesSvc := fees.NewService(gw, log, m)
	reportSvc := reporting.NewService(gw, log, m)

	phones := phone.NewValidator(cfg.DefaultPhoneRegion)
	exporter, err := reporting.NewExporter(cfg.ExportDir, phones, m)
	if err != nil {
		log.Error("export dir init failed", "error", err)
		os.Exit(1)
	}

	policy, err := reporting.ParsePolicy(cfg.DashboardRefreshPolicy)
	if err != nil {
		log.Warn("falling back to manual dashboard refresh", "error", err)
		policy = reporting.PolicyManual
	}
	refresher := reporting.NewRefresher(reportSvc, session.Anonymous(), policy, cfg.DashboardRefreshEvery, log)
	if err := refresher.Start(); err != nil {
		log.Error("dashboard refresher failed to start", "error", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(m.Middleware())
	e.Use(middleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst).Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api", apimw.Session())
	handlers.NewPipelineHandler(pipelineSvc).Register(api)
	handlers.NewHistoryHandler(historySvc).Register(api)
	handlers.NewFeesHandler(feesSvc).Register(api)
	handlers.NewDashboardHandler(reportSvc, exporter, gw).Register(api)

	go func() {
		addr := cfg.APIHost + ":" + cfg.APIPort
		log.Info("back-office server starting", "addr", addr, "environment", cfg.APIEnvironment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func buildCacheStore(cfg *config.Config, m *metrics.Metrics, log logger.Logger) (cache.Store, error) {
	if cfg.CacheBackend != "redis" {
		return cache.NewMemoryStore(cfg.CacheTTL, m), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.CacheTTL, m)
	if err != nil {
		return nil, err
	}
	log.Info("redis cache connected")
	return store, nil
}
