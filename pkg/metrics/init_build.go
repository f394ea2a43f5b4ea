package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkscope_graph_builds_total",
			Help: "Total number of graph builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkscope_graph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"status"},
	)

	r.BuildNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkscope_graph_build_nodes",
			Help:    "Node count per built graph",
			Buckets: []float64{10, 50, 100, 250, 500, 800, 1500},
		},
	)

	r.BuildEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkscope_graph_build_edges",
			Help:    "Edge count per built graph",
			Buckets: []float64{10, 100, 500, 1000, 5000, 20000},
		},
	)

	r.BuildsTruncated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkscope_graph_builds_truncated_total",
			Help: "Builds that exceeded the node ceiling and were trimmed",
		},
	)

	r.BuildCacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkscope_payload_cache_hits_total",
			Help: "Payload cache hits",
		},
	)

	r.BuildCacheMisses = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkscope_payload_cache_misses_total",
			Help: "Payload cache misses",
		},
	)
}
