// Package metrics provides Prometheus-backed implementations of the
// statechart observer interfaces.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TickObserver records tick latencies in a histogram and the size of the
// Running set in a gauge. It implements statechart.TickLatencyObserver.
type TickObserver struct {
	duration prometheus.Histogram
	active   prometheus.Gauge
}

func NewTickObserver(reg prometheus.Registerer) *TickObserver {
	o := &TickObserver{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statechart_tick_duration_seconds",
			Help:    "Latency of one statechart evaluation tick.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statechart_active_nodes",
			Help: "Number of nodes in the Running set after the last tick.",
		}),
	}
	reg.MustRegister(o.duration, o.active)
	return o
}

func (o *TickObserver) ObserveTick(duration time.Duration, active int) {
	o.duration.Observe(duration.Seconds())
	o.active.Set(float64(active))
}
