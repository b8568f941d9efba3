package profiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports latency samples to Prometheus.
type Metrics struct {
	latency prometheus.Histogram
	last    prometheus.Gauge
	samples prometheus.Counter
}

// NewMetrics creates the latency collectors on reg. A nil reg leaves them unregistered.
//
// Parameters:
//   - reg: registerer the collectors are attached to
//
// Returns:
//   - *Metrics: the exporter
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oxyrt",
			Name:      "compute_pass_latency_milliseconds",
			Help:      "GPU compute pass latency measured with timestamp queries",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		last: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "oxyrt",
			Name:      "compute_pass_latency_last_milliseconds",
			Help:      "Most recent GPU compute pass latency",
		}),
		samples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "oxyrt",
			Name:      "compute_pass_latency_samples_total",
			Help:      "Number of latency samples collected",
		}),
	}
}

// Observe exports new samples in order.
//
// Parameters:
//   - samples: latencies in milliseconds not yet exported
func (m *Metrics) Observe(samples []float32) {
	for _, s := range samples {
		m.latency.Observe(float64(s))
		m.samples.Inc()
	}
	if n := len(samples); n > 0 {
		m.last.Set(float64(samples[n-1]))
	}
}
