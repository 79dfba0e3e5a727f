package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation shared by the calculator
// and the optimization layer. Construct once per process and pass to
// NewCalculator via WithMetrics.
type Metrics struct {
	calculations *prometheus.CounterVec
	fallbacks    prometheus.Counter
	candidates   prometheus.Counter
}

// NewMetrics registers the engine metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dcsizer_calculations_total",
			Help: "Sizing calculations by cooling type and result source.",
		}, []string{"cooling_type", "source"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "dcsizer_fallback_total",
			Help: "Calculations served by the reduced-fidelity fallback path.",
		}),
		candidates: factory.NewCounter(prometheus.CounterOpts{
			Name: "dcsizer_optimization_candidates_total",
			Help: "Candidate configurations evaluated by the optimization layer.",
		}),
	}
}

// ObserveCalculation counts one completed calculation.
func (m *Metrics) ObserveCalculation(coolingType, source string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(coolingType, source).Inc()
}

// ObserveFallback counts one fallback engagement.
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// ObserveCandidate counts one optimization candidate evaluation.
func (m *Metrics) ObserveCandidate() {
	if m == nil {
		return
	}
	m.candidates.Inc()
}
