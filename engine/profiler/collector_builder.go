package profiler

import (
	"time"

	"go.uber.org/zap"
)

// CollectorBuilderOption is a functional option for configuring a Collector.
type CollectorBuilderOption func(c *Collector)

// WithInterval sets the redraw cadence. Non-positive values are ignored.
func WithInterval(interval time.Duration) CollectorBuilderOption {
	return func(c *Collector) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithChart enables the PNG chart output.
//
// Parameters:
//   - path: output file path (empty disables the chart)
//   - width: image width in pixels
//   - height: image height in pixels
//
// Returns:
//   - CollectorBuilderOption: option function to apply
func WithChart(path string, width, height int) CollectorBuilderOption {
	return func(c *Collector) {
		c.chartPath = path
		if width > 0 && height > 0 {
			c.chartWidth, c.chartHeight = width, height
		}
	}
}

// WithMetrics enables the Prometheus export.
func WithMetrics(m *Metrics) CollectorBuilderOption {
	return func(c *Collector) {
		c.metrics = m
	}
}

// WithLogger sets the logger for failed iterations.
func WithLogger(logger *zap.Logger) CollectorBuilderOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) CollectorBuilderOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}
