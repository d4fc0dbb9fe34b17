// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	RuleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_rule_matches_total",
			Help: "Total number of marketing rule matches applied to job listings",
		},
		[]string{"rule_id"},
	)

	RuleCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_rule_cache_total",
			Help: "Rule list cache lookups by result",
		},
		[]string{"result"},
	)

	VerificationSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_sends_total",
			Help: "Total number of two-factor verification codes sent",
		},
		[]string{"channel", "status"},
	)

	PaymentIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_intents_total",
			Help: "Total number of payment intents created",
		},
		[]string{"currency", "status"},
	)
)
