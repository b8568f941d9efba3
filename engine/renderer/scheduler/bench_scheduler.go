package scheduler

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// querySize is the byte size of one resolved timestamp.
const querySize = 8

// queryCount covers the beginning and end of the compute pass.
const queryCount = 2

// Query slots written around the compute pass.
const (
	beginQuery uint32 = 0
	endQuery   uint32 = 1
)

// BenchScheduler brackets each compute pass with encoder timestamp writes and records the
// measured pass latency once the resolved timestamps have been mapped back.
type BenchScheduler struct {
	device    *wgpu.Device
	querySet  *wgpu.QuerySet
	resolve   *wgpu.Buffer
	readback  *readback
	period    float32
	latencies *profiler.Latencies
	collector *profiler.Collector
	logger    *zap.Logger
}

var _ Scheduler = &BenchScheduler{}

// NewBenchScheduler allocates the timestamp query set, resolve buffer and readback,
// then starts the latency collector when one was supplied.
// The device must have been created with FeatureNameTimestampQuery.
//
// Parameters:
//   - device: the device to allocate on
//   - queue: unused, accepted to match Factory
//   - opts: scheduler options
//
// Returns:
//   - *BenchScheduler: the scheduler, ready for its first update
//   - error: error if a GPU object could not be created
func NewBenchScheduler(device *wgpu.Device, _ *wgpu.Queue, opts ...SchedulerBuilderOption) (*BenchScheduler, error) {
	o := newOptions(opts)

	qs, err := device.CreateQuerySet(&wgpu.QuerySetDescriptor{
		Label: "Timestamp Query Set",
		Type:  wgpu.QueryTypeTimestamp,
		Count: queryCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create timestamp query set: %w", err)
	}

	resolve, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Timestamp Resolve Buffer",
		Size:  queryCount * querySize,
		Usage: wgpu.BufferUsageQueryResolve | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		qs.Release()
		return nil, fmt.Errorf("failed to create timestamp resolve buffer: %w", err)
	}

	rb, err := newReadback(device, "Timestamp Readback Buffer", queryCount*querySize)
	if err != nil {
		resolve.Release()
		qs.Release()
		return nil, err
	}

	s := &BenchScheduler{
		device:    device,
		querySet:  qs,
		resolve:   resolve,
		readback:  rb,
		period:    o.period,
		latencies: o.latencies,
		collector: o.collector,
		logger:    o.logger,
	}
	if s.collector != nil {
		s.collector.Start()
	}
	return s, nil
}

// Latencies returns the sequence measured pass latencies are appended to.
func (s *BenchScheduler) Latencies() *profiler.Latencies {
	return s.latencies
}

func (s *BenchScheduler) Entry() *Entry {
	return nil
}

func (s *BenchScheduler) Descriptor() *wgpu.ComputePassDescriptor {
	return &wgpu.ComputePassDescriptor{Label: "Bench Compute Pass"}
}

// Begin writes the start marker right before the pass.
func (s *BenchScheduler) Begin(encoder Encoder) error {
	if err := encoder.WriteTimestamp(s.querySet, beginQuery); err != nil {
		return fmt.Errorf("failed to write begin timestamp: %w", err)
	}
	return nil
}

// Pre writes the end marker right after the pass and resolves both into the resolve buffer.
func (s *BenchScheduler) Pre(encoder Encoder) error {
	if err := encoder.WriteTimestamp(s.querySet, endQuery); err != nil {
		return fmt.Errorf("failed to write end timestamp: %w", err)
	}
	if err := encoder.ResolveQuerySet(s.querySet, beginQuery, queryCount, s.resolve, 0); err != nil {
		return fmt.Errorf("failed to resolve timestamps: %w", err)
	}
	return nil
}

// Post submits a second command buffer that copies the resolved timestamps into the
// readback buffer, then requests the map.
func (s *BenchScheduler) Post(device *wgpu.Device, queue *wgpu.Queue) error {
	encoder, err := device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Timestamp Copy Encoder"})
	if err != nil {
		return fmt.Errorf("failed to create timestamp copy encoder: %w", err)
	}
	defer encoder.Release()

	if err := encoder.CopyBufferToBuffer(s.resolve, 0, s.readback.buffer, 0, queryCount*querySize); err != nil {
		return fmt.Errorf("failed to copy timestamps: %w", err)
	}
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish timestamp copy: %w", err)
	}
	queue.Submit(commandBuffer)
	commandBuffer.Release()

	return s.readback.request()
}

func (s *BenchScheduler) Ready() bool {
	s.device.Poll(false, nil)
	return s.readback.collect(s.record)
}

func (s *BenchScheduler) record(data []byte) {
	ms, ok := frameTime(data, s.period)
	if !ok {
		s.logger.Debug("dropping uninterpretable timestamps", zap.Int("bytes", len(data)))
		return
	}
	s.latencies.Append(ms)
	s.logger.Info("compute pass", zap.Float32("ms", ms))
}

// Release stops the collector and frees the query set and buffers.
func (s *BenchScheduler) Release() {
	if s.collector != nil {
		s.collector.Stop()
		s.collector = nil
	}
	s.readback.release()
	if s.resolve != nil {
		s.resolve.Release()
		s.resolve = nil
	}
	if s.querySet != nil {
		s.querySet.Release()
		s.querySet = nil
	}
}

// frameTime converts two resolved timestamps into milliseconds. Timestamps are in the
// device's native byte order and tick at period nanoseconds. Data shorter than two
// timestamps, or an end before the start, yields false.
func frameTime(data []byte, period float32) (float32, bool) {
	if len(data) < queryCount*querySize {
		return 0, false
	}
	start := binary.NativeEndian.Uint64(data[0:querySize])
	end := binary.NativeEndian.Uint64(data[querySize : 2*querySize])
	if end < start {
		return 0, false
	}
	return float32(end-start) * period * 1e-6, true
}
