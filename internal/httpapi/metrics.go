package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the council-level prometheus instruments.
type Metrics struct {
	CouncilsStarted   prometheus.Counter
	CouncilsCompleted prometheus.Counter
	CouncilsFailed    prometheus.Counter
	OvertimesStarted  prometheus.Counter
	TurnsProduced     prometheus.Counter
}

// NewMetrics registers the council metrics on the default registry.
func NewMetrics() *Metrics {
	return newMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers on a caller-supplied registry so
// tests don't collide on the process-wide default.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetricsWith(reg)
}

func newMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CouncilsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "councild_councils_started_total",
			Help: "Councils whose stream orchestration was started.",
		}),
		CouncilsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "councild_councils_completed_total",
			Help: "Councils that finished with a verdict set and were persisted.",
		}),
		CouncilsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "councild_councils_failed_total",
			Help: "Councils aborted by an upstream model or delivery failure.",
		}),
		OvertimesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "councild_overtimes_started_total",
			Help: "Overtime extensions started.",
		}),
		TurnsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "councild_turns_produced_total",
			Help: "Council messages produced across all runs.",
		}),
	}
}
