package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache lookups by cache name.
type Metrics struct {
	Hits   *prometheus.CounterVec
	Misses *prometheus.CounterVec
}

// NewMetrics registers cache metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbcheck_cache_hits_total",
			Help: "Cache hits by cache name",
		}, []string{"cache"}),
		Misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbcheck_cache_misses_total",
			Help: "Cache misses (absent or stale) by cache name",
		}, []string{"cache"}),
	}
}

// IncrementHit records a fresh hit.
func (m *Metrics) IncrementHit(cache string) {
	if m != nil {
		m.Hits.WithLabelValues(cache).Inc()
	}
}

// IncrementMiss records a miss.
func (m *Metrics) IncrementMiss(cache string) {
	if m != nil {
		m.Misses.WithLabelValues(cache).Inc()
	}
}
