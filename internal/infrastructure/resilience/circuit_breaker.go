package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fx-gateway/internal/infrastructure/metrics"
)

// ErrCircuitOpen signals a fail-fast rejection while the breaker is open. It
// is distinct from upstream failures so the boundary can map it to a
// "temporarily unavailable" condition.
var ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker tracks consecutive transient failures against the upstream.
// One long-lived instance guards each upstream target; its state is shared by
// every caller of the owning pipeline.
type CircuitBreaker struct {
	failureThreshold int
	breakDuration    time.Duration
	log              zerolog.Logger
	now              func() time.Time

	mu            sync.Mutex
	state         CircuitState
	failures      int
	openedAt      time.Time
	probeInFlight bool
}

// NewCircuitBreaker creates a closed breaker. A nil clock defaults to
// time.Now.
func NewCircuitBreaker(failureThreshold int, breakDuration time.Duration, log zerolog.Logger, now func() time.Time) *CircuitBreaker {
	if now == nil {
		now = time.Now
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		breakDuration:    breakDuration,
		log:              log.With().Str("component", "circuit-breaker").Logger(),
		now:              now,
		state:            StateClosed,
	}
}

// Allow reports whether a call may proceed. While open it returns
// ErrCircuitOpen without the call being attempted; after the break duration
// it admits a single trial call in half-open state.
func (cb *CircuitBreaker) Allow(operation string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.breakDuration {
			cb.log.Info().Str("operation", operation).Msg("circuit breaker transitioning to half-open")
			cb.setState(StateHalfOpen)
			cb.probeInFlight = true
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probeInFlight {
			return ErrCircuitOpen
		}
		cb.probeInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

// Record updates breaker state with the outcome of an attempted call.
// Transient failures feed the consecutive-failure counter; any other outcome
// resets it.
func (cb *CircuitBreaker) Record(operation string, transientFailure bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probeInFlight = false
		if transientFailure {
			cb.log.Warn().Str("operation", operation).Msg("circuit breaker re-opening after failed trial call")
			cb.open()
			return
		}
		cb.log.Info().Str("operation", operation).Msg("circuit breaker reset to closed after successful trial call")
		cb.setState(StateClosed)
		cb.failures = 0
		return
	}

	if !transientFailure {
		cb.failures = 0
		return
	}

	cb.failures++
	if cb.state == StateClosed && cb.failures >= cb.failureThreshold {
		cb.log.Error().
			Str("operation", operation).
			Int("consecutive_failures", cb.failures).
			Dur("break_duration", cb.breakDuration).
			Msg("circuit breaker opening due to failure threshold")
		cb.open()
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) open() {
	cb.setState(StateOpen)
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.probeInFlight = false
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	metrics.CircuitBreakerState.Set(float64(state))
}
