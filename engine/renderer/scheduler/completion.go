package scheduler

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/atomic"
)

// completion is the single edge between the device callback and the frame loop.
// The callback records the map outcome and then raises fired; the loop swaps fired
// back to false, which makes each completion observable exactly once.
type completion struct {
	fired  *atomic.Bool
	mapped *atomic.Bool
}

// newCompletion is primed: readback buffers are created mapped, so the first
// update must be allowed through and the first consume must unmap.
func newCompletion() *completion {
	return &completion{
		fired:  atomic.NewBool(true),
		mapped: atomic.NewBool(true),
	}
}

func (c *completion) signal(mapped bool) {
	c.mapped.Store(mapped)
	c.fired.Store(true)
}

func (c *completion) consume() (fired, mapped bool) {
	if !c.fired.Swap(false) {
		return false, false
	}
	return true, c.mapped.Load()
}

// readback is a MAP_READ buffer paired with its completion.
type readback struct {
	buffer *wgpu.Buffer
	size   uint64
	done   *completion

	// requested is true while a Post-issued map is outstanding. It stays false for the
	// primed mapping so its zeroed contents are never interpreted.
	requested bool
}

func newReadback(device *wgpu.Device, label string, size uint64) (*readback, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		MappedAtCreation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	return &readback{buffer: buf, size: size, done: newCompletion()}, nil
}

// request asks the device to map the buffer. The callback only signals the completion.
func (r *readback) request() error {
	err := r.buffer.MapAsync(wgpu.MapModeRead, 0, r.size, func(status wgpu.BufferMapAsyncStatus) {
		r.done.signal(status == wgpu.BufferMapAsyncStatusSuccess)
	})
	if err != nil {
		return fmt.Errorf("failed to request readback map: %w", err)
	}
	r.requested = true
	return nil
}

// collect consumes a finished round trip. read, when non-nil, sees the mapped bytes of a
// requested map before the buffer is unmapped.
func (r *readback) collect(read func(data []byte)) bool {
	fired, mapped := r.done.consume()
	if !fired {
		return false
	}
	requested := r.requested
	r.requested = false
	if mapped {
		if requested && read != nil {
			read(r.buffer.GetMappedRange(0, uint(r.size)))
		}
		r.buffer.Unmap()
	}
	return true
}

func (r *readback) release() {
	if r.buffer != nil {
		r.buffer.Release()
		r.buffer = nil
	}
}
