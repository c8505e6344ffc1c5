package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Admission backend (the REST API that owns all persistence)
	BackendBaseURL string

	// Cache
	CacheBackend string // "memory" or "redis"
	RedisURL     string
	CacheTTL     time.Duration

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// CORS
	CORSAllowedOrigins []string

	// Rate limiting (inbound, per client IP)
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Outbound gateway throttle (requests per second against the backend, 0 = off)
	GatewayRequestsPerSecond int

	// Dashboard refresh
	DashboardRefreshPolicy string // "manual" or "interval"
	DashboardRefreshEvery  time.Duration

	// Exports
	ExportDir string

	// Leads
	DefaultPhoneRegion string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// HTTP server
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Backend
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:5000"),

		// Cache
		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", 30*time.Second),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("API_ENVIRONMENT", "development")),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Rate limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Gateway throttle
		GatewayRequestsPerSecond: getEnvAsInt("GATEWAY_REQUESTS_PER_SECOND", 0),

		// Dashboard refresh
		DashboardRefreshPolicy: getEnv("DASHBOARD_REFRESH_POLICY", "interval"),
		DashboardRefreshEvery:  getEnvAsDuration("DASHBOARD_REFRESH_EVERY", 30*time.Second),

		// Exports
		ExportDir: getEnv("EXPORT_DIR", "./data/exports"),

		// Leads
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "BD"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
