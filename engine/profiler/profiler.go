package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks paint and update rates alongside memory statistics.
// Outputs stats to the logger once per update interval.
type Profiler struct {
	logger         *zap.Logger
	frameCount     int
	updateCount    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler reporting through logger.
// Update interval defaults to 1 second.
//
// Parameters:
//   - logger: destination for the periodic report (nil disables output)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		logger:         logger.Named("profiler"),
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Update records that a compute update was issued during the current frame.
func (p *Profiler) Update() {
	p.updateCount++
}

// Tick should be called once per paint cycle.
// Logs frame rate, update rate, heap usage, allocation rate and GC pauses when the interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocRate := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPause, maxPause time.Duration
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		lastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			maxPause = max(maxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Info("frame stats",
		zap.Float64("fps", float64(p.frameCount)/elapsed.Seconds()),
		zap.Float64("ups", float64(p.updateCount)/elapsed.Seconds()),
		zap.Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024),
		zap.Float64("alloc_mb_s", allocRate),
		zap.Uint32("gc", gcCount),
		zap.Duration("gc_last", lastPause),
		zap.Duration("gc_max", maxPause),
		zap.Float64("sys_mb", float64(p.memStats.Sys)/1024/1024),
	)

	p.frameCount = 0
	p.updateCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
