package observability

import (
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mbt"

// Metrics records generation progress as Prometheus metrics:
//
//   - mbt_steps_total{transition}: walked transitions, by label.
//   - mbt_backtracks_total: undone walks.
//   - mbt_dead_ends_total: states reached with no accessible transition.
//   - mbt_edge_coverage_ratio / mbt_state_coverage_ratio: coverage after the last step.
type Metrics struct {
	steps         *prometheus.CounterVec
	backtracks    prometheus.Counter
	deadEnds      prometheus.Counter
	edgeCoverage  prometheus.Gauge
	stateCoverage prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with registry
// (prometheus.DefaultRegisterer if nil).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of walked transitions",
		}, []string{"transition"}),
		backtracks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtracks_total",
			Help:      "Total number of undone walks",
		}),
		deadEnds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_ends_total",
			Help:      "Total number of states reached without accessible transitions",
		}),
		edgeCoverage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edge_coverage_ratio",
			Help:      "Ratio of transitions walked at least once",
		}),
		stateCoverage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_coverage_ratio",
			Help:      "Ratio of states visited at least once",
		}),
	}
}

// Hooks returns the callbacks feeding the metrics.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			m.steps.WithLabelValues(e.Step.Label).Inc()
			m.edgeCoverage.Set(e.EdgeCoverage)
			m.stateCoverage.Set(e.StateCoverage)
		},
		OnBacktrack: func(*domain.BacktrackEvent) {
			m.backtracks.Inc()
		},
		OnDeadEnd: func(*domain.DeadEndEvent) {
			m.deadEnds.Inc()
		},
	}
}
