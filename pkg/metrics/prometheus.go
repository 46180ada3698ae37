package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls made to the market data provider.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akshare_proxy_upstream_requests_total",
			Help: "Requests sent to the market data provider",
		},
		[]string{"source", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "akshare_proxy_upstream_request_duration_seconds",
			Help:    "Market data provider latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	// Fallbacks counts responses served from hardcoded defaults.
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akshare_proxy_fallbacks_total",
			Help: "Responses degraded to fallback payloads",
		},
		[]string{"endpoint"},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akshare_proxy_cache_operations_total",
			Help: "Cache operations count",
		},
		[]string{"operation", "result"}, // result: hit/miss/error
	)
)
