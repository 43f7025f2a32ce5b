// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postboard_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postboard_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postboard_session_store_errors_total",
			Help: "Failed redis commands issued by the session store.",
		},
		[]string{"command"},
	)

	ResponsesByStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postboard_envelope_responses_total",
			Help: "Responses by envelope status (success, fail, error).",
		},
		[]string{"status"},
	)
)
