package readthrough

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Metrics counts cache outcomes per key namespace.
type Metrics struct {
	lookups          *prometheus.CounterVec
	producerDuration *prometheus.HistogramVec
}

// NewMetrics creates the cache collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Read-through cache outcomes by key namespace",
			},
			[]string{"namespace", "result"},
		),
		producerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "cache_producer_duration_seconds",
				Help: "Time spent computing values on cache misses",
			},
			[]string{"namespace"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.producerDuration)
	}
	return m
}

// Lookups exposes the outcome counter, mainly for tests.
func (m *Metrics) Lookups() *prometheus.CounterVec {
	return m.lookups
}

func (c *Cache) observe(key, result string) {
	if c.metrics != nil {
		c.metrics.lookups.WithLabelValues(namespaceOf(key), result).Inc()
	}
}

func (c *Cache) observeProducer(key string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.producerDuration.WithLabelValues(namespaceOf(key)).Observe(d.Seconds())
	}
}
