package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks cache behavior per resource tag.
type Metrics struct {
	reads         *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	storeErrors   prometheus.Counter
}

// NewMetrics registers cache metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		reads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cozyberries",
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Cache reads by resource tag and outcome (hit, stale, miss).",
		}, []string{"resource", "status"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cozyberries",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache invalidations by resource tag.",
		}, []string{"resource"}),
		storeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cozyberries",
			Subsystem: "cache",
			Name:      "store_errors_total",
			Help:      "Cache store operations that failed or timed out.",
		}),
	}
}

// ObserveRead records a read outcome for a resource tag.
func (m *Metrics) ObserveRead(tag string, status Status) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(tag, string(status)).Inc()
}

// ObserveInvalidation records an invalidation for a resource tag.
func (m *Metrics) ObserveInvalidation(tag string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(tag).Inc()
}

// ObserveStoreError records a failed cache store operation.
func (m *Metrics) ObserveStoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}
