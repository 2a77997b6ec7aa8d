package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the gateway.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"fx-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"FX_GATEWAY_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Key-Value Store
	RedisURL string `env:"FX_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Upstream Rates Provider
	UpstreamBaseURL string        `env:"FX_UPSTREAM_BASE_URL" envDefault:"https://api.frankfurter.dev/v1"`
	UpstreamTimeout time.Duration `env:"FX_UPSTREAM_TIMEOUT" envDefault:"10s"`
	DefaultProvider string        `env:"FX_DEFAULT_PROVIDER" envDefault:"frankfurter"`

	// Cache TTLs
	LatestCacheTTL     time.Duration `env:"FX_LATEST_CACHE_TTL" envDefault:"30m"`
	HistoricalCacheTTL time.Duration `env:"FX_HISTORICAL_CACHE_TTL" envDefault:"24h"`

	// Resilience
	RetryCount             int           `env:"FX_RETRY_COUNT" envDefault:"3"`
	BaseBackoffSeconds     float64       `env:"FX_BASE_BACKOFF_SECONDS" envDefault:"2"`
	FailuresBeforeBreaking int           `env:"FX_FAILURES_BEFORE_BREAKING" envDefault:"5"`
	BreakDuration          time.Duration `env:"FX_BREAK_DURATION" envDefault:"1m"`

	// Token Lifetimes
	AccessTokenTTL  time.Duration `env:"FX_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"FX_REFRESH_TOKEN_TTL" envDefault:"168h"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.UpstreamBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.UpstreamBaseURL), "/")
	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("FX_UPSTREAM_BASE_URL must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
