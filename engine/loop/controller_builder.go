package loop

import (
	"time"

	"github.com/Carmen-Shannon/oxy-rt/engine/canvas"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"go.uber.org/zap"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(c *Controller)

// WithClock replaces time.Now as the controller's time source.
//
// Parameters:
//   - clock: returns the current instant
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithClock(clock func() time.Time) ControllerBuilderOption {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger used for skipped updates and the exit line.
func WithLogger(logger *zap.Logger) ControllerBuilderOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCanvas sets the platform canvas collaborator.
func WithCanvas(cv canvas.Canvas) ControllerBuilderOption {
	return func(c *Controller) {
		if cv != nil {
			c.canvas = cv
		}
	}
}

// WithProfiler enables per-frame profiling.
func WithProfiler(p *profiler.Profiler) ControllerBuilderOption {
	return func(c *Controller) {
		c.profiler = p
	}
}
