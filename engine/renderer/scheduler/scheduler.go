// Package scheduler tracks completion of compute submissions. A Scheduler decorates every
// compute pass, appends its own commands to the encoder, requests an asynchronous buffer map
// after submission and reports, without blocking, whether that round trip has finished.
package scheduler

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Entry is an extra buffer a Scheduler wants bound into the compute bind group.
type Entry struct {
	// Buffer is the bound GPU buffer.
	Buffer *wgpu.Buffer

	// Size is the bound range in bytes.
	Size uint64

	// Type is the buffer binding type declared in the layout.
	Type wgpu.BufferBindingType
}

// Encoder is the subset of *wgpu.CommandEncoder a Scheduler records into.
type Encoder interface {
	WriteTimestamp(querySet *wgpu.QuerySet, queryIndex uint32) error
	ResolveQuerySet(querySet *wgpu.QuerySet, firstQuery uint32, queryCount uint32, destination *wgpu.Buffer, destinationOffset uint64) error
	CopyBufferToBuffer(source *wgpu.Buffer, sourceOffset uint64, destination *wgpu.Buffer, destinationOffset uint64, size uint64) error
}

var _ Encoder = &wgpu.CommandEncoder{}

// Scheduler bridges the device's asynchronous completion callback into a pollable check.
type Scheduler interface {
	// Entry returns the extra compute binding this scheduler needs, or nil.
	//
	// Returns:
	//   - *Entry: the buffer to bind after the storage texture, or nil
	Entry() *Entry

	// Descriptor returns the compute pass descriptor.
	//
	// Returns:
	//   - *wgpu.ComputePassDescriptor: the descriptor for BeginComputePass
	Descriptor() *wgpu.ComputePassDescriptor

	// Begin records scheduler commands immediately before the compute pass begins.
	//
	// Parameters:
	//   - encoder: the update encoder
	//
	// Returns:
	//   - error: error if a command could not be recorded
	Begin(encoder Encoder) error

	// Pre records scheduler commands after the compute pass has ended.
	//
	// Parameters:
	//   - encoder: the update encoder, not yet finished
	//
	// Returns:
	//   - error: error if a command could not be recorded
	Pre(encoder Encoder) error

	// Post runs after the update submission and requests the asynchronous readback map.
	//
	// Parameters:
	//   - device: the device owning the scheduler resources
	//   - queue: the queue the update was submitted to
	//
	// Returns:
	//   - error: error if the readback could not be requested
	Post(device *wgpu.Device, queue *wgpu.Queue) error

	// Ready reports whether the previous round trip has completed. It never blocks.
	// A true result consumes the completion; the next call returns false until another
	// round trip completes.
	//
	// Returns:
	//   - bool: true if a new update may be issued
	Ready() bool

	// Release frees the scheduler's GPU resources.
	Release()
}

// Factory creates a Scheduler once the device exists.
type Factory func(device *wgpu.Device, queue *wgpu.Queue) (Scheduler, error)

// SchedulerBuilderOption is a functional option shared by the scheduler constructors.
type SchedulerBuilderOption func(o *options)

type options struct {
	logger    *zap.Logger
	latencies *profiler.Latencies
	collector *profiler.Collector
	period    float32
}

func newOptions(opts []SchedulerBuilderOption) options {
	o := options{
		logger: zap.NewNop(),
		period: config.DefaultTimestampPeriod,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.latencies == nil {
		o.latencies = profiler.NewLatencies()
	}
	o.logger = o.logger.Named("scheduler")
	return o
}

// WithLogger sets the scheduler logger.
func WithLogger(logger *zap.Logger) SchedulerBuilderOption {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLatencies shares a latency sequence with the bench scheduler.
func WithLatencies(l *profiler.Latencies) SchedulerBuilderOption {
	return func(o *options) {
		o.latencies = l
	}
}

// WithCollector hands the bench scheduler a collector to start and later stop.
func WithCollector(c *profiler.Collector) SchedulerBuilderOption {
	return func(o *options) {
		o.collector = c
	}
}

// WithTimestampPeriod sets the nanoseconds-per-tick used to convert timestamp deltas.
func WithTimestampPeriod(period float32) SchedulerBuilderOption {
	return func(o *options) {
		if period > 0 {
			o.period = period
		}
	}
}

// NewFactory returns the constructor for the given scheduler kind.
//
// Parameters:
//   - kind: the configured scheduler kind
//   - opts: options forwarded to the constructor
//
// Returns:
//   - Factory: a constructor to call once the device is available
func NewFactory(kind config.SchedulerKind, opts ...SchedulerBuilderOption) Factory {
	if kind == config.SchedulerBench {
		return func(device *wgpu.Device, queue *wgpu.Queue) (Scheduler, error) {
			return NewBenchScheduler(device, queue, opts...)
		}
	}
	return func(device *wgpu.Device, queue *wgpu.Queue) (Scheduler, error) {
		return NewDefaultScheduler(device, queue, opts...)
	}
}

// RequiredFeatures lists the device features the scheduler kind depends on.
// The bench markers are written on the encoder, outside any pass. The binding's native
// feature set has no separate flag for that, so timestamp queries are the only request.
//
// Parameters:
//   - kind: the configured scheduler kind
//
// Returns:
//   - []wgpu.FeatureName: features to request from the adapter
func RequiredFeatures(kind config.SchedulerKind) []wgpu.FeatureName {
	if kind == config.SchedulerBench {
		return []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery}
	}
	return nil
}
