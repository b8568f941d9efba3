package config

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// ConfigBuilderOption is a functional option applied over the default Config by New.
type ConfigBuilderOption func(c *Config)

// WithFormat sets the storage texture format.
//
// Parameters:
//   - format: the texture format written by the compute pass
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithFormat(format wgpu.TextureFormat) ConfigBuilderOption {
	return func(c *Config) {
		c.Format = format
	}
}

// WithFixedResolution pins the render target to width x height.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithFixedResolution(width, height uint32) ConfigBuilderOption {
	return func(c *Config) {
		c.Resolution = Fixed(width, height)
	}
}

// WithWorkgroupTile lets the render target follow the window with an n x n workgroup.
//
// Parameters:
//   - n: workgroup edge length
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithWorkgroupTile(n uint32) ConfigBuilderOption {
	return func(c *Config) {
		c.Resolution = WorkgroupTile(n)
	}
}

// WithFPS sets the fixed update rate.
//
// Parameters:
//   - fps: updates per second
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithFPS(fps uint32) ConfigBuilderOption {
	return func(c *Config) {
		c.FPS = fps
	}
}

// WithCanvasHandle sets the raw handle tagged onto the web canvas.
//
// Parameters:
//   - handle: non-zero canvas handle
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithCanvasHandle(handle uint32) ConfigBuilderOption {
	return func(c *Config) {
		c.CanvasHandle = handle
	}
}

// WithScheduler selects the completion-tracking strategy.
//
// Parameters:
//   - kind: SchedulerDefault or SchedulerBench
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithScheduler(kind SchedulerKind) ConfigBuilderOption {
	return func(c *Config) {
		c.Scheduler = kind
	}
}

// WithTimestampPeriod sets the nanoseconds-per-tick used to convert timestamp deltas.
//
// Parameters:
//   - period: nanoseconds per timestamp tick
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithTimestampPeriod(period float32) ConfigBuilderOption {
	return func(c *Config) {
		c.TimestampPeriod = period
	}
}

// WithCollector configures the bench latency collector.
//
// Parameters:
//   - interval: redraw cadence (zero keeps the default)
//   - chartPath: PNG output path (empty disables the chart)
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithCollector(interval time.Duration, chartPath string) ConfigBuilderOption {
	return func(c *Config) {
		if interval > 0 {
			c.CollectInterval = interval
		}
		c.ChartPath = chartPath
	}
}

// WithVSync toggles FIFO presentation.
//
// Parameters:
//   - vsync: true for FIFO, false for immediate
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithVSync(vsync bool) ConfigBuilderOption {
	return func(c *Config) {
		c.VSync = vsync
	}
}
