package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Build Metrics
	BuildsTotal      *prometheus.CounterVec
	BuildDuration    *prometheus.HistogramVec
	BuildNodes       prometheus.Histogram
	BuildEdges       prometheus.Histogram
	BuildsTruncated  prometheus.Counter
	BuildCacheHits   prometheus.Counter
	BuildCacheMisses prometheus.Counter

	// Session Metrics
	FetchesTotal       *prometheus.CounterVec
	FetchesSuperseded  prometheus.Counter
	FocusRequestsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initBuildMetrics()
	r.initSessionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
