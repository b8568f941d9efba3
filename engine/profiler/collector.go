package profiler

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Collector periodically redraws the latency chart and exports new samples to Prometheus.
// It runs on its own goroutine and only reads the shared Latencies through snapshots.
// A failed iteration is logged and skipped; only Stop ends the goroutine.
type Collector struct {
	latencies *Latencies
	logger    *zap.Logger
	metrics   *Metrics

	interval    time.Duration
	chartPath   string
	chartWidth  int
	chartHeight int

	pool    worker.DynamicWorkerPool
	workers int

	// cursor is the number of samples already exported to metrics.
	cursor int
	taskID int

	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewCollector creates a Collector reading from latencies. Call Start to launch it.
//
// Parameters:
//   - latencies: the shared sample sequence
//   - options: functional options for cadence, outputs and logging
//
// Returns:
//   - *Collector: the configured, not yet started collector
func NewCollector(latencies *Latencies, options ...CollectorBuilderOption) *Collector {
	c := &Collector{
		latencies:   latencies,
		logger:      zap.NewNop(),
		interval:    500 * time.Millisecond,
		chartWidth:  640,
		chartHeight: 480,
		workers:     2,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = c.logger.Named("collector")
	c.pool = worker.NewDynamicWorkerPool(c.workers, 16, 1*time.Second)
	return c
}

// Start launches the redraw goroutine. Later calls are no-ops.
func (c *Collector) Start() {
	if !c.started.Swap(true) {
		go c.run()
	}
}

// Stop ends the redraw goroutine, waits for it to exit and stops the worker pool.
// Safe to call multiple times, and without a prior Start.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		if c.started.Load() {
			<-c.done
		}
		c.pool.Stop()
	})
}

func (c *Collector) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.Collect(); err != nil {
				c.logger.Warn("latency redraw failed", zap.Error(err))
			}
		}
	}
}

// Collect runs one redraw iteration: the chart and the metrics export are submitted to the
// worker pool and joined before returning. The export cursor advances as soon as the samples
// are observed, whatever happens to the chart, so no sample is exported twice.
//
// Returns:
//   - error: combined errors from the iteration's tasks
func (c *Collector) Collect() error {
	samples := c.latencies.Snapshot()
	if len(samples) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	submit := func(do func() error) {
		wg.Add(1)
		c.taskID++
		c.pool.SubmitTask(worker.Task{
			ID: c.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				err := do()
				if err != nil {
					mu.Lock()
					errs = multierr.Append(errs, err)
					mu.Unlock()
				}
				return nil, err
			},
		})
	}

	if c.chartPath != "" {
		submit(func() error {
			return SaveChart(c.chartPath, samples, c.chartWidth, c.chartHeight)
		})
	}

	fresh := samples[min(c.cursor, len(samples)):]
	exported := false
	if c.metrics != nil && len(fresh) > 0 {
		submit(func() error {
			c.metrics.Observe(fresh)
			exported = true
			return nil
		})
	}

	wg.Wait()
	if exported {
		c.cursor = len(samples)
	}
	if errs == nil {
		c.logger.Debug("latency redraw", zap.Int("samples", len(samples)), zap.Int("new", len(fresh)))
	}
	return errs
}
