package engine

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an engine.
// Use the With* functions to create options.
type EngineBuilderOption func(e *engine)

// WithLogger sets the root logger handed to every subsystem.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWindowOptions forwards options to the window constructor.
//
// Parameters:
//   - options: window options such as title and size
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRegisterer exports bench latencies to the given Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) EngineBuilderOption {
	return func(e *engine) {
		e.registerer = reg
	}
}

// WithChartSize sets the latency chart dimensions in pixels.
func WithChartSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		if width > 0 && height > 0 {
			e.chartWidth, e.chartHeight = width, height
		}
	}
}

// WithProfiling enables the once-per-second fps and memory log line.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profiling = enabled
	}
}
