// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route pattern, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartinvoice_http_requests_total",
		Help: "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route pattern and method
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartinvoice_http_request_duration_seconds",
		Help:    "HTTP request latency, by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// IdentifierFallbacks counts documents stored under the fallback identifier
	IdentifierFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartinvoice_identifier_fallback_total",
		Help: "Document identifiers assigned from the fallback value after a failed lookup.",
	}, []string{"doc_type"})

	// IdentifierConflicts counts fallback creates rejected because the identifier was already issued
	IdentifierConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartinvoice_identifier_conflict_total",
		Help: "Document creations rejected because their fallback identifier was already issued.",
	}, []string{"doc_type"})
)
