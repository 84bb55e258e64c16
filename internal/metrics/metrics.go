// Package metrics provides Prometheus metrics for the bookmark service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "sentry"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Bookmark metrics
var (
	// BookmarkOpsTotal counts bookmark store operations by op and result.
	BookmarkOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookmarks",
			Name:      "operations_total",
			Help:      "Total bookmark operations by operation and result",
		},
		[]string{"op", "result"},
	)

	// BookmarkCountCacheTotal counts count-cache lookups and discarded stale reads.
	BookmarkCountCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookmarks",
			Name:      "count_cache_total",
			Help:      "Bookmark count cache lookups by result (hit, miss, stale)",
		},
		[]string{"result"},
	)
)
