// Package loop drives one paint cycle at a time: it accumulates wall time into fixed-period
// updates, debounces resize bursts into a single resource rebuild, renders every cycle and
// defers every error to the end of the cycle.
package loop

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/canvas"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Controller owns the update timing state. It is not safe for concurrent use; every method
// must be called from the thread running the window loop.
type Controller struct {
	stage    Stage
	canvas   canvas.Canvas
	policy   config.Resolution
	period   time.Duration
	clock    func() time.Time
	logger   *zap.Logger
	profiler *profiler.Profiler

	last  time.Time
	accum time.Duration

	pending   *common.Size
	pendingAt time.Time

	// current is the last size applied to the surface.
	current common.Size

	done bool
	err  error
}

// NewController creates a Controller for stage. The stage must already be configured for initial.
//
// Parameters:
//   - stage: the GPU stage driven by the loop
//   - cfg: the launch configuration (resolution policy and update period)
//   - initial: the drawable size the stage was created with
//   - options: functional options (clock, logger, canvas, profiler)
//
// Returns:
//   - *Controller: the controller, with its clock sampled
func NewController(stage Stage, cfg config.Config, initial common.Size, options ...ControllerBuilderOption) *Controller {
	c := &Controller{
		stage:   stage,
		canvas:  canvas.New(),
		policy:  cfg.Resolution,
		period:  cfg.Period(),
		clock:   time.Now,
		logger:  zap.NewNop(),
		current: initial,
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = c.logger.Named("loop")
	c.last = c.clock()
	return c
}

// Resized records a platform resize event. Zero-area sizes and repeats of the pending
// size are ignored; anything else restarts the debounce window.
//
// Parameters:
//   - size: the new drawable size reported by the platform
func (c *Controller) Resized(size common.Size) {
	if !size.Positive() {
		return
	}
	if c.pending != nil && *c.pending == size {
		return
	}
	c.record(size, c.clock())
}

func (c *Controller) record(size common.Size, at time.Time) {
	c.pending = &size
	c.pendingAt = at
}

// Frame runs one paint cycle. At most one update is issued per call.
func (c *Controller) Frame() {
	if c.done {
		return
	}

	var status error
	now := c.clock()
	if delta := now.Sub(c.last); delta > 0 {
		c.accum += delta
	}
	c.last = now

	if c.canvas.Polling() {
		if err := c.poll(now); err != nil {
			status = multierr.Append(status, &StepError{Step: StepCanvas, Err: err})
		}
	}

	dirty := false
	if c.pending != nil && now.Sub(c.pendingAt) > c.period {
		size := *c.pending
		c.pending = nil
		if err := c.canvas.Apply(size); err != nil {
			status = multierr.Append(status, &StepError{Step: StepCanvas, Err: err})
		}
		if err := c.reconfigure(size); err != nil {
			status = multierr.Append(status, &StepError{Step: StepResize, Err: err})
		}
		dirty = true
	}

	if c.accum >= c.period {
		c.accum -= c.period
		dirty = true
	}

	if dirty {
		issued, err := c.stage.Update()
		if err != nil {
			status = multierr.Append(status, &StepError{Step: StepUpdate, Err: err})
		}
		if !issued && err == nil {
			c.logger.Debug("update skipped, previous submission in flight")
		}
		if issued && c.profiler != nil {
			c.profiler.Update()
		}
	}

	if err := c.stage.Render(); err != nil {
		if errors.Is(err, ErrSurfaceLost) {
			c.logger.Debug("surface lost, reconfiguring", zap.Stringer("size", c.current))
			if err := c.reconfigure(c.current); err != nil {
				status = multierr.Append(status, &StepError{Step: StepResize, Err: err})
			}
		} else {
			status = multierr.Append(status, &StepError{Step: StepRender, Err: err})
		}
	}

	if c.profiler != nil {
		c.profiler.Tick()
	}

	c.finish(status)
}

// poll is the fallback for hosts that never deliver resize events.
func (c *Controller) poll(now time.Time) error {
	size, err := c.canvas.Viewport()
	if err != nil {
		return err
	}
	if !size.Positive() {
		return nil
	}
	reference := c.current
	if c.pending != nil {
		reference = *c.pending
	}
	if size != reference {
		c.record(size, now)
	}
	return nil
}

// reconfigure applies size to the surface, and to the resource package when it tracks the window.
func (c *Controller) reconfigure(size common.Size) error {
	if !size.Positive() {
		return nil
	}
	if err := c.stage.Configure(size); err != nil {
		return err
	}
	c.current = size
	if c.policy.Tracks() {
		if err := c.stage.Rebuild(size); err != nil {
			return err
		}
	}
	return c.stage.WriteSize(c.policy.Resolve(size))
}

func (c *Controller) finish(status error) {
	if status == nil {
		return
	}
	steps := make([]string, 0, 2)
	for _, err := range multierr.Errors(status) {
		var se *StepError
		if errors.As(err, &se) {
			steps = append(steps, string(se.Step))
		}
	}
	c.logger.Error("frame failed, exiting", zap.Strings("steps", steps), zap.Error(status))
	c.err = status
	c.done = true
}

// Close requests a clean exit at the next natural point.
func (c *Controller) Close() {
	c.done = true
}

// Done reports whether the loop should stop.
func (c *Controller) Done() bool {
	return c.done
}

// Err returns the deferred status that ended the loop, or nil after a clean exit.
func (c *Controller) Err() error {
	return c.err
}

// Size returns the last size applied to the surface.
func (c *Controller) Size() common.Size {
	return c.current
}
