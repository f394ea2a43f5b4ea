package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordBuild records one graph build
func (r *Registry) RecordBuild(status string, duration time.Duration, nodes, edges int, truncated bool) {
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.WithLabelValues(status).Observe(duration.Seconds())
	if status == "ok" {
		r.BuildNodes.Observe(float64(nodes))
		r.BuildEdges.Observe(float64(edges))
	}
	if truncated {
		r.BuildsTruncated.Inc()
	}
}

// RecordFetch records a session fetch outcome
func (r *Registry) RecordFetch(outcome string) {
	r.FetchesTotal.WithLabelValues(outcome).Inc()
	if outcome == "superseded" {
		r.FetchesSuperseded.Inc()
	}
}

// RecordFocusRequest records a deep-link focus request result
func (r *Registry) RecordFocusRequest(result string) {
	r.FocusRequestsTotal.WithLabelValues(result).Inc()
}

// Handler returns the /metrics HTTP handler for this registry
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
