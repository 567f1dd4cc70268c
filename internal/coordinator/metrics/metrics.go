package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation coordinator.
type Metrics struct {
	// Check latencies by kind
	CheckLatency *prometheus.HistogramVec

	// Checks that errored, timed out or panicked, by kind
	CheckErrors *prometheus.CounterVec

	// Validation outcomes by overall status
	Outcomes *prometheus.CounterVec

	// Whole validation latency
	ValidateLatency prometheus.Histogram
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "herbcheck_coordinator_check_duration_seconds",
			Help:    "Duration of individual validation checks by kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		}, []string{"kind"}),

		CheckErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbcheck_coordinator_check_errors_total",
			Help: "Total validation checks converted to error results, by kind",
		}, []string{"kind"}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbcheck_coordinator_outcomes_total",
			Help: "Total validations by overall status",
		}, []string{"status"}),

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "herbcheck_coordinator_validate_duration_seconds",
			Help:    "Duration of a full validation including all checks",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 45},
		}),
	}
}

// ObserveCheck records how long one check took.
func (m *Metrics) ObserveCheck(kind string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// IncrementCheckError records a check that produced an error result.
func (m *Metrics) IncrementCheckError(kind string) {
	if m != nil {
		m.CheckErrors.WithLabelValues(kind).Inc()
	}
}

// IncrementOutcome records a validation outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.Outcomes.WithLabelValues(status).Inc()
	}
}

// ObserveValidate records the total validation duration.
func (m *Metrics) ObserveValidate(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}
