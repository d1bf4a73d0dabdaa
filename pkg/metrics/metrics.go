package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationOutcomes counts public verification lookups by result
	// (valid|inactive|token_invalid|token_expired|subject_mismatch|not_found|error).
	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffverify_verifications_total",
			Help: "Total number of credential verifications by outcome",
		},
		[]string{"outcome"},
	)

	// CredentialsIssued counts verification URLs minted by mode (token|lookup).
	CredentialsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffverify_credentials_issued_total",
			Help: "Total number of credentials issued",
		},
		[]string{"mode"},
	)

	// StoreOperations counts employee store calls by operation and result (ok|error|unavailable).
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffverify_store_operations_total",
			Help: "Total number of employee store operations",
		},
		[]string{"operation", "result"},
	)

	// RateLimited counts requests rejected by the public rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "staffverify_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staffverify_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
