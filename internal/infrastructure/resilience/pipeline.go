// Package resilience wraps outbound calls with a retry policy composed with a
// circuit breaker. The retry policy wraps the breaker, so every retry attempt
// is itself subject to the breaker's fail-fast behaviour.
package resilience

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fx-gateway/internal/infrastructure/metrics"
)

// Result is the outcome of an action: anything carrying a status indicator.
type Result interface {
	Status() int
}

// Action is an outbound call executed under the pipeline's policies.
type Action func(ctx context.Context) (Result, error)

// Config defines the retry and circuit breaker behaviour.
type Config struct {
	// RetryCount is the number of retries after the initial attempt.
	RetryCount int
	// BaseBackoffSeconds is the base of the exponential backoff: the delay
	// before retry attempt n is BaseBackoffSeconds^n seconds.
	BaseBackoffSeconds float64
	// FailuresBeforeBreaking is the consecutive transient failure threshold
	// that opens the circuit.
	FailuresBeforeBreaking int
	// BreakDuration is how long the circuit stays open before admitting a
	// trial call.
	BreakDuration time.Duration
}

// Validate rejects configurations that cannot express a sane policy.
func (c Config) Validate() error {
	if c.RetryCount < 0 {
		return fmt.Errorf("resilience: RetryCount must be >= 0, got %d", c.RetryCount)
	}
	if c.BaseBackoffSeconds < 0 {
		return fmt.Errorf("resilience: BaseBackoffSeconds must be >= 0, got %g", c.BaseBackoffSeconds)
	}
	if c.FailuresBeforeBreaking < 1 {
		return fmt.Errorf("resilience: FailuresBeforeBreaking must be >= 1, got %d", c.FailuresBeforeBreaking)
	}
	if c.BreakDuration < time.Minute {
		return fmt.Errorf("resilience: BreakDuration must be >= 1m, got %s", c.BreakDuration)
	}
	return nil
}

// Pipeline executes actions under the composed retry + breaker policies.
type Pipeline struct {
	cfg     Config
	breaker *CircuitBreaker
	log     zerolog.Logger
}

// NewPipeline validates the configuration and constructs a pipeline with a
// fresh closed breaker. Invalid configuration fails fast here.
func NewPipeline(cfg Config, log zerolog.Logger, now func() time.Time) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		breaker: NewCircuitBreaker(cfg.FailuresBeforeBreaking, cfg.BreakDuration, log, now),
		log:     log.With().Str("component", "resilience").Logger(),
	}, nil
}

// Breaker exposes the pipeline's breaker for health reporting.
func (p *Pipeline) Breaker() *CircuitBreaker {
	return p.breaker
}

// Execute runs the action. Transient failures (transport errors, 429, 5xx)
// are retried with exponential backoff; ErrCircuitOpen aborts immediately.
// The last result and error are returned when retries are exhausted.
func (p *Pipeline) Execute(ctx context.Context, operation string, action Action) (Result, error) {
	var (
		lastRes Result
		lastErr error
	)

	for attempt := 0; attempt <= p.cfg.RetryCount; attempt++ {
		if err := p.breaker.Allow(operation); err != nil {
			return nil, err
		}

		res, err := action(ctx)
		transient := isTransient(res, err)
		p.breaker.Record(operation, transient)

		if !transient {
			return res, err
		}

		lastRes, lastErr = res, err
		if attempt == p.cfg.RetryCount {
			break
		}

		delay := p.backoff(attempt + 1)
		event := p.log.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Int("max_retries", p.cfg.RetryCount).
			Dur("retry_delay", delay)
		if err != nil {
			event = event.Err(err)
		} else if res != nil {
			event = event.Int("status", res.Status())
		}
		event.Msg("retrying upstream call after transient failure")
		metrics.UpstreamRetriesTotal.Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr != nil {
		return lastRes, fmt.Errorf("upstream call failed after %d retries: %w", p.cfg.RetryCount, lastErr)
	}
	return lastRes, nil
}

// backoff computes the delay before retry attempt n as base^n seconds.
func (p *Pipeline) backoff(attempt int) time.Duration {
	if p.cfg.BaseBackoffSeconds == 0 {
		return 0
	}
	return time.Duration(math.Pow(p.cfg.BaseBackoffSeconds, float64(attempt)) * float64(time.Second))
}

// isTransient classifies a call outcome. Network-level failures, 429 and
// 5xx-class statuses are retryable; everything else is final.
func isTransient(res Result, err error) bool {
	if err != nil {
		return true
	}
	if res == nil {
		return false
	}
	status := res.Status()
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
