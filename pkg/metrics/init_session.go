package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.FetchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkscope_fetches_total",
			Help: "Graph fetches by outcome",
		},
		[]string{"outcome"},
	)

	r.FetchesSuperseded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkscope_fetches_superseded_total",
			Help: "Fetches discarded because a newer request replaced them",
		},
	)

	r.FocusRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkscope_focus_requests_total",
			Help: "Deep-link focus requests by result",
		},
		[]string{"result"},
	)
}
