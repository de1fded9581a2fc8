package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Structuring provider names accepted by STRUCTURING_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// Config holds all configuration for the application
type Config struct {
	// Database: postgres://... for the server deployment, sqlite://path or file:path for a
	// single-household install.
	DatabaseURL string `conf:"default:sqlite://trove.db,env:DATABASE_URL"`
	// Redis: leave empty to run without the container cache and with cookie sessions.
	RedisURL string `conf:"env:REDIS_URL"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`
	HTTPAddr    string `conf:"default::8080,env:HTTP_ADDR"`

	// HTTP limits
	HTTPRequestsPerMinute int           `conf:"default:100,env:HTTP_REQUESTS_PER_MINUTE"`
	HTTPMaxBodyBytes      int64         `conf:"default:1048576,env:HTTP_MAX_BODY_BYTES"`
	HTTPHandlerTimeout    time.Duration `conf:"default:30s,env:HTTP_HANDLER_TIMEOUT"`

	// Session
	SessionAuthKey       string `conf:"default:dev-auth-key-32-bytes-long!!!,env:SESSION_AUTH_KEY"`
	SessionEncryptionKey string `conf:"default:dev-encryption-key-32-bytes!!,env:SESSION_ENCRYPTION_KEY"`

	// CORS: comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Temporal: leave TEMPORAL_HOST_PORT empty to print labels directly from the subscriber.
	TemporalHostPort  string `conf:"env:TEMPORAL_HOST_PORT"`
	TemporalNamespace string `conf:"default:default,env:TEMPORAL_NAMESPACE"`
	LabelTaskQueue    string `conf:"default:label-printing,env:LABEL_TASK_QUEUE"`

	// Item extraction
	StructuringProvider  string        `conf:"default:none,enum:openai|ollama|none,env:STRUCTURING_PROVIDER"`
	StructuringModel     string        `conf:"default:gpt-4o-mini,env:STRUCTURING_MODEL"`
	StructuringAPIKey    string        `conf:"env:STRUCTURING_API_KEY,noprint"`
	StructuringBaseURL   string        `conf:"env:STRUCTURING_BASE_URL"`
	StructuringTimeout   time.Duration `conf:"default:5s,env:STRUCTURING_TIMEOUT"`
	StructuringCacheSize int           `conf:"default:256,env:STRUCTURING_CACHE_SIZE"`
	ExtractionFallback   string        `conf:"default:per-line,enum:per-line|whole-text,env:EXTRACTION_FALLBACK"`

	// Labels: command receiving the raw EPL stream on stdin; empty disables printing.
	LabelPrinterCommand string        `conf:"default:lp -o raw,env:LABEL_PRINTER_COMMAND"`
	LabelPrintTimeout   time.Duration `conf:"default:10s,env:LABEL_PRINT_TIMEOUT"`

	// Observability
	ServiceName    string `conf:"default:treasuretrove,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// IsSQLite reports whether DatabaseURL points at a SQLite database.
func (c *Config) IsSQLite() bool {
	return strings.HasPrefix(c.DatabaseURL, "sqlite:") || strings.HasPrefix(c.DatabaseURL, "file:")
}

// ValidateForProduction enforces security requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if len(cfg.SessionAuthKey) < 32 {
		errs = append(errs, fmt.Sprintf(
			"SESSION_AUTH_KEY must be at least 32 bytes (got %d); generate with: openssl rand -base64 32",
			len(cfg.SessionAuthKey),
		))
	}

	if len(cfg.SessionEncryptionKey) < 16 {
		errs = append(errs, fmt.Sprintf(
			"SESSION_ENCRYPTION_KEY must be at least 16 bytes (got %d); generate with: openssl rand -base64 16",
			len(cfg.SessionEncryptionKey),
		))
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.StructuringProvider == ProviderOpenAI && cfg.StructuringAPIKey == "" {
		errs = append(errs, "STRUCTURING_API_KEY is required when STRUCTURING_PROVIDER=openai")
	}

	if cfg.StructuringTimeout <= 0 {
		errs = append(errs, "STRUCTURING_TIMEOUT must be positive")
	}

	if cfg.HTTPHandlerTimeout <= cfg.StructuringTimeout {
		errs = append(errs, fmt.Sprintf(
			"HTTP_HANDLER_TIMEOUT (%s) must exceed STRUCTURING_TIMEOUT (%s)",
			cfg.HTTPHandlerTimeout, cfg.StructuringTimeout,
		))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
