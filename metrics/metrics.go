package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "search_orchestrator",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "search_orchestrator",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "path"})

	MetasearchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "search_orchestrator",
		Name:      "metasearch_requests_total",
		Help:      "Total requests to the metasearch engine by result status.",
	}, []string{"status"})

	MetasearchRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "search_orchestrator",
		Name:      "metasearch_request_duration_seconds",
		Help:      "Metasearch request duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "search_orchestrator",
		Name:      "metasearch_cache_hits_total",
		Help:      "Total number of metasearch cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "search_orchestrator",
		Name:      "metasearch_cache_misses_total",
		Help:      "Total number of metasearch cache misses.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		MetasearchRequestsTotal,
		MetasearchRequestDuration,
		CacheHitsTotal,
		CacheMissesTotal,
	)
}
