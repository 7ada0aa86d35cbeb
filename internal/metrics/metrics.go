// Package metrics exports pool and ingest telemetry to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/veldspar/intelboard/pkg/pool"
)

// PoolMetrics implements the pool's Sink contract on top of Prometheus
// collectors. Tags beyond kind and priority are dropped to keep label
// cardinality bounded (subject ids are unbounded).
type PoolMetrics struct {
	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intelboard",
			Subsystem: "pool",
			Name:      "jobs_total",
			Help:      "Analysis job outcomes by kind and priority.",
		}, []string{"outcome", "kind", "priority"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intelboard",
			Subsystem: "pool",
			Name:      "job_duration_seconds",
			Help:      "Analysis job duration by outcome and kind.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"outcome", "kind"}),
	}
	reg.MustRegister(m.outcomes, m.durations)
	return m
}

func (m *PoolMetrics) Observe(event string, duration time.Duration, tags map[string]string) {
	kind := tags["kind"]
	priority := tags["priority"]
	m.outcomes.WithLabelValues(event, kind, priority).Inc()
	if event != "dropped" && event != "queue_wait" {
		m.durations.WithLabelValues(event, kind).Observe(duration.Seconds())
	}
}

// RegisterPoolGauges exposes live pool occupancy. The stats function is
// called at scrape time so gauges never drift from pool state.
func RegisterPoolGauges(reg prometheus.Registerer, stats func() pool.Stats) {
	gauge := func(name, help string, value func(pool.Stats) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "intelboard",
			Subsystem: "pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(stats()) })
	}

	reg.MustRegister(
		gauge("size", "Current number of live workers.",
			func(s pool.Stats) float64 { return float64(s.PoolSize) }),
		gauge("busy", "Workers currently executing a job.",
			func(s pool.Stats) float64 { return float64(s.Busy) }),
		gauge("queue_length", "Jobs waiting for a worker.",
			func(s pool.Stats) float64 { return float64(s.QueueLength) }),
		gauge("utilization", "Busy workers as a fraction of pool size.",
			func(s pool.Stats) float64 { return s.Utilization }),
	)
}
