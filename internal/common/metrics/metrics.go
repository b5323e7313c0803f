// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogueTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventaide_dialogue_turns_total",
			Help: "Dialogue turns handled, by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventaide_upstream_requests_total",
			Help: "Requests sent to external services",
		},
		[]string{"service", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventaide_upstream_request_duration_seconds",
			Help:    "Latency of external service requests",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"service"},
	)

	CategoryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventaide_category_fetch_failures_total",
			Help: "Category fetches dropped from an aggregation",
		},
		[]string{"category", "error_code"},
	)

	EventsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventaide_events_returned",
			Help:    "Events returned per aggregation",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventaide_cache_lookups_total",
			Help: "Cache lookups by keyspace and result",
		},
		[]string{"keyspace", "result"},
	)
)
