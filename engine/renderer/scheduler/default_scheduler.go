package scheduler

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// mapAlignment is the smallest mappable buffer size.
const mapAlignment = 8

// DefaultScheduler copies a small buffer into a readback after each update and maps it,
// so Ready turns true once the GPU has drained that submission.
type DefaultScheduler struct {
	device   *wgpu.Device
	buffer   *wgpu.Buffer
	readback *readback
	logger   *zap.Logger
}

var _ Scheduler = &DefaultScheduler{}

// NewDefaultScheduler allocates the tracking buffer and its readback.
//
// Parameters:
//   - device: the device to allocate on
//   - queue: unused, accepted to match Factory
//   - opts: scheduler options
//
// Returns:
//   - *DefaultScheduler: the scheduler, ready for its first update
//   - error: error if a buffer could not be created
func NewDefaultScheduler(device *wgpu.Device, _ *wgpu.Queue, opts ...SchedulerBuilderOption) (*DefaultScheduler, error) {
	o := newOptions(opts)

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Completion Buffer",
		Size:  mapAlignment,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion buffer: %w", err)
	}

	rb, err := newReadback(device, "Completion Readback Buffer", mapAlignment)
	if err != nil {
		buf.Release()
		return nil, err
	}

	return &DefaultScheduler{
		device:   device,
		buffer:   buf,
		readback: rb,
		logger:   o.logger,
	}, nil
}

func (s *DefaultScheduler) Entry() *Entry {
	return &Entry{
		Buffer: s.buffer,
		Size:   mapAlignment,
		Type:   wgpu.BufferBindingTypeUniform,
	}
}

func (s *DefaultScheduler) Descriptor() *wgpu.ComputePassDescriptor {
	return &wgpu.ComputePassDescriptor{Label: "Compute Pass"}
}

func (s *DefaultScheduler) Begin(Encoder) error {
	return nil
}

func (s *DefaultScheduler) Pre(encoder Encoder) error {
	if err := encoder.CopyBufferToBuffer(s.buffer, 0, s.readback.buffer, 0, mapAlignment); err != nil {
		return fmt.Errorf("failed to copy completion buffer: %w", err)
	}
	return nil
}

func (s *DefaultScheduler) Post(_ *wgpu.Device, _ *wgpu.Queue) error {
	return s.readback.request()
}

func (s *DefaultScheduler) Ready() bool {
	s.device.Poll(false, nil)
	return s.readback.collect(nil)
}

func (s *DefaultScheduler) Release() {
	s.readback.release()
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
}
