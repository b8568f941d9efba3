package engine

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/engine/canvas"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/loop"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scheduler"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Engine is the main entry point. It owns the window, the GPU state and the frame loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Run drives the loop until the window closes or a frame fails, then releases everything.
	//
	// Returns:
	//   - error: the deferred frame error, or nil after a clean exit
	Run() error

	// Quit requests a clean exit at the next frame boundary.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// engine implements the Engine interface.
type engine struct {
	cfg    config.Config
	logger *zap.Logger

	windowOptions []window.WindowBuilderOption
	registerer    prometheus.Registerer
	chartWidth    int
	chartHeight   int
	profiling     bool

	window     window.Window
	canvas     canvas.Canvas
	latencies  *profiler.Latencies
	state      *renderer.State
	controller *loop.Controller

	quitOnce sync.Once
}

var _ Engine = &engine{}

// NewEngine creates the window, binds the canvas, acquires the GPU and builds the frame loop.
//
// Parameters:
//   - cfg: the validated launch configuration
//   - options: functional options for logging, window and metrics setup
//
// Returns:
//   - Engine: the ready engine
//   - error: the first setup failure
func NewEngine(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &engine{
		cfg:         cfg,
		logger:      zap.NewNop(),
		chartWidth:  800,
		chartHeight: 400,
		latencies:   profiler.NewLatencies(),
	}
	for _, opt := range options {
		opt(e)
	}

	w, err := window.NewWindow(e.windowOptions...)
	if err != nil {
		return nil, err
	}
	e.window = w

	e.canvas = canvas.New()
	if err := e.canvas.Bind(cfg.CanvasHandle); err != nil {
		e.window.Close()
		return nil, err
	}

	initial := e.window.Size()
	e.state, err = renderer.NewState(e.window.SurfaceDescriptor(), cfg, initial, e.schedulerFactory(), renderer.WithLogger(e.logger))
	if err != nil {
		e.window.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	controllerOptions := []loop.ControllerBuilderOption{
		loop.WithLogger(e.logger),
		loop.WithCanvas(e.canvas),
	}
	if e.profiling {
		controllerOptions = append(controllerOptions, loop.WithProfiler(profiler.NewProfiler(e.logger)))
	}
	e.controller = loop.NewController(e.state, cfg, initial, controllerOptions...)
	e.window.SetResizeCallback(e.controller.Resized)

	return e, nil
}

// schedulerFactory wires the configured scheduler kind to the shared latency sequence.
// Only the bench scheduler gets a collector, which it starts and stops itself.
func (e *engine) schedulerFactory() scheduler.Factory {
	opts := []scheduler.SchedulerBuilderOption{
		scheduler.WithLogger(e.logger),
		scheduler.WithLatencies(e.latencies),
		scheduler.WithTimestampPeriod(e.cfg.TimestampPeriod),
	}
	if e.cfg.Scheduler == config.SchedulerBench {
		collectorOptions := []profiler.CollectorBuilderOption{
			profiler.WithLogger(e.logger),
			profiler.WithInterval(e.cfg.CollectInterval),
			profiler.WithChart(e.cfg.ChartPath, e.chartWidth, e.chartHeight),
		}
		if e.registerer != nil {
			collectorOptions = append(collectorOptions, profiler.WithMetrics(profiler.NewMetrics(e.registerer)))
		}
		opts = append(opts, scheduler.WithCollector(profiler.NewCollector(e.latencies, collectorOptions...)))
	}
	return scheduler.NewFactory(e.cfg.Scheduler, opts...)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() error {
	e.window.SetUpdateCallback(func() {
		e.controller.Frame()
		if e.controller.Done() {
			e.window.RequestClose()
		}
	})
	e.window.ProcessMessages()

	e.state.Release()
	if err := e.window.Close(); err != nil {
		e.logger.Warn("window close failed", zap.Error(err))
	}

	err := e.controller.Err()
	e.logger.Info("loop exited",
		zap.Stringer("size", e.controller.Size()),
		zap.Int("samples", e.latencies.Len()),
		zap.Error(err),
	)
	return err
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.controller.Close()
	})
}
