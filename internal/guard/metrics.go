package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insightboard_guard_decisions_total",
		Help: "Route guard decisions by outcome.",
	}, []string{"outcome"})

	navigations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insightboard_guard_navigations_total",
		Help: "Navigations to the login path triggered by the route guard.",
	})
)

// Record counts one guard decision.
func Record(o Outcome) {
	decisions.WithLabelValues(o.String()).Inc()
}
