// Package config holds the immutable launch configuration: surface format, resolution policy,
// update rate, canvas handle and completion scheduler selection.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// SchedulerKind selects the completion-tracking strategy attached to every compute submission.
type SchedulerKind int

const (
	// SchedulerDefault only tracks completion of the previous round trip.
	SchedulerDefault SchedulerKind = iota

	// SchedulerBench additionally measures GPU pass latency with timestamp queries.
	SchedulerBench
)

// ParseSchedulerKind maps a flag value onto a SchedulerKind.
//
// Parameters:
//   - name: "default" or "bench"
//
// Returns:
//   - SchedulerKind: the matching kind
//   - error: error if name is unknown
func ParseSchedulerKind(name string) (SchedulerKind, error) {
	switch name {
	case "", "default":
		return SchedulerDefault, nil
	case "bench":
		return SchedulerBench, nil
	}
	return SchedulerDefault, fmt.Errorf("unknown scheduler %q", name)
}

func (k SchedulerKind) String() string {
	if k == SchedulerBench {
		return "bench"
	}
	return "default"
}

const (
	// DefaultFPS is the fixed update rate and the inverse of the resize debounce interval.
	DefaultFPS = 15

	// DefaultTile is the default workgroup edge for the tracking resolution policy.
	DefaultTile = 16

	// DefaultCanvasHandle is the raw handle tagged onto the HTML canvas on web targets.
	DefaultCanvasHandle = 2024

	// DefaultTimestampPeriod is the nanoseconds-per-tick used when converting timestamp deltas.
	DefaultTimestampPeriod = 1.0

	// DefaultCollectInterval is how often the latency collector redraws.
	DefaultCollectInterval = 500 * time.Millisecond
)

var (
	// ErrInvalidFPS is returned when the update rate is zero.
	ErrInvalidFPS = errors.New("fps must be positive")

	// ErrInvalidCanvasHandle is returned when the canvas handle is zero.
	ErrInvalidCanvasHandle = errors.New("canvas handle must be non-zero")
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	// Format is the storage texture format written by the compute pass and sampled by the render pass.
	Format wgpu.TextureFormat

	// Resolution is the active resolution policy.
	Resolution Resolution

	// FPS is the fixed update rate. Its period doubles as the resize debounce interval.
	FPS uint32

	// CanvasHandle tags the HTML canvas on web targets. Ignored on native.
	CanvasHandle uint32

	// Scheduler selects the completion-tracking strategy.
	Scheduler SchedulerKind

	// TimestampPeriod converts raw timestamp ticks into nanoseconds for the bench scheduler.
	TimestampPeriod float32

	// CollectInterval is the latency collector redraw cadence for the bench scheduler.
	CollectInterval time.Duration

	// ChartPath is where the bench collector writes its latency chart. Empty disables the chart.
	ChartPath string

	// VSync presents with FIFO instead of immediate mode.
	VSync bool
}

// Default returns the launch configuration used when nothing is overridden.
//
// Returns:
//   - Config: RGBA8 storage format, 16px workgroup tile, 15 fps, canvas handle 2024, default scheduler
func Default() Config {
	return Config{
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Resolution:      WorkgroupTile(DefaultTile),
		FPS:             DefaultFPS,
		CanvasHandle:    DefaultCanvasHandle,
		Scheduler:       SchedulerDefault,
		TimestampPeriod: DefaultTimestampPeriod,
		CollectInterval: DefaultCollectInterval,
		VSync:           true,
	}
}

// New builds a validated Config from the defaults and the given options.
//
// Parameters:
//   - options: functional options applied in order over Default()
//
// Returns:
//   - Config: the resulting configuration
//   - error: validation error if the result is unusable
func New(options ...ConfigBuilderOption) (Config, error) {
	c := Default()
	for _, opt := range options {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects configurations the loop cannot run with.
//
// Returns:
//   - error: the first problem found, or nil
func (c Config) Validate() error {
	if c.FPS == 0 {
		return ErrInvalidFPS
	}
	if c.CanvasHandle == 0 {
		return ErrInvalidCanvasHandle
	}
	if err := c.Resolution.validate(); err != nil {
		return fmt.Errorf("invalid resolution: %w", err)
	}
	if c.Scheduler == SchedulerBench && c.TimestampPeriod <= 0 {
		return fmt.Errorf("timestamp period must be positive, got %v", c.TimestampPeriod)
	}
	return nil
}

// Period is the fixed update period and the resize debounce interval.
//
// Returns:
//   - time.Duration: one second divided by FPS
func (c Config) Period() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
