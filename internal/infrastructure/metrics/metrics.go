package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FX-Gateway Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Cache lookups, split by outcome: hit, miss or expired
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "cache_lookups_total",
			Help:      "Cache-aside lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Upstream call counter
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "upstream_requests_total",
			Help:      "Total upstream provider requests",
		},
		[]string{"operation", "status"},
	)

	// Retry attempts
	UpstreamRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "upstream_retries_total",
			Help:      "Total upstream retry attempts",
		},
	)

	// Circuit breaker state: 0 closed, 1 open, 2 half-open
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)

	// Token operations
	TokenOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fx",
			Subsystem: "gateway",
			Name:      "token_operations_total",
			Help:      "Token store operations by kind and status",
		},
		[]string{"operation", "status"},
	)
)

// RecordCacheLookup increments the cache lookup counter for an outcome.
func RecordCacheLookup(outcome string) {
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstreamRequest increments the upstream request counter.
func RecordUpstreamRequest(operation, status string) {
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordTokenOperation increments the token operation counter.
func RecordTokenOperation(operation, status string) {
	TokenOperationsTotal.WithLabelValues(operation, status).Inc()
}
