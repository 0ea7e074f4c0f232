// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreRequestLatency records store gateway round-trip latency by operation.
	StoreRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filmrate_store_request_latency_seconds",
		Help:    "Store gateway request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// StoreErrors counts failed store gateway calls by operation.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmrate_store_errors_total",
		Help: "Total number of store gateway errors by operation",
	}, []string{"operation"})

	// UpstreamRequests counts catalog API calls by endpoint and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmrate_upstream_requests_total",
		Help: "Total number of upstream catalog requests by endpoint and status",
	}, []string{"endpoint", "status"})

	// CacheHits counts cache-aside hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmrate_cache_hits_total",
		Help: "Total number of cache hits by key prefix",
	}, []string{"prefix"})

	// CacheMisses counts cache-aside misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmrate_cache_misses_total",
		Help: "Total number of cache misses by key prefix",
	}, []string{"prefix"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmrate_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// ObserveStoreRequest records the latency of one store gateway call.
// Use with defer: defer ObserveStoreRequest("query", time.Now()).
func ObserveStoreRequest(operation string, start time.Time) {
	StoreRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
