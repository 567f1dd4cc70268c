package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for outcome publishing.
type Metrics struct {
	Published  prometheus.Counter
	Failed     prometheus.Counter
	Dropped    prometheus.Counter
	QueueDepth prometheus.Gauge
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "herbcheck_outcome_published_total",
			Help: "Total validation outcome events published",
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "herbcheck_outcome_publish_failures_total",
			Help: "Total validation outcome events the sink rejected",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "herbcheck_outcome_dropped_total",
			Help: "Total validation outcome events dropped because the queue was full",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "herbcheck_outcome_queue_depth",
			Help: "Outcome events waiting to be published",
		}),
	}
}

func (m *Metrics) IncPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) IncFailed() {
	if m != nil {
		m.Failed.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
