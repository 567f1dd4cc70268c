package health

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports the last probe verdict per component.
type Metrics struct {
	ComponentUp *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ComponentUp: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "herbcheck_component_up",
			Help: "Last health probe result per component (1=up, 0=down)",
		}, []string{"component"}),
	}
}

// SetComponentUp records the last probe result.
func (m *Metrics) SetComponentUp(component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.ComponentUp.WithLabelValues(component).Set(v)
}
