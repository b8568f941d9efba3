package renderer

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/loop"
	"github.com/cogentcore/webgpu/wgpu"
)

// backend owns the device, queue and presentation surface.
type backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
}

// newBackend acquires an adapter compatible with the window surface and a device with features enabled.
func newBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, features []wgpu.FeatureName, vsync, forceFallbackAdapter bool) (*backend, error) {
	runtime.LockOSThread()

	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("surface descriptor is nil")
	}

	b := &backend{instance: wgpu.CreateInstance(nil)}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: features,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		b.release()
		return nil, fmt.Errorf("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	b.presentMode = wgpu.PresentModeFifo
	if !vsync && slices.Contains(capabilities.PresentModes, wgpu.PresentModeImmediate) {
		b.presentMode = wgpu.PresentModeImmediate
	}

	return b, nil
}

// configure resizes the swapchain. Zero-area sizes are ignored.
func (b *backend) configure(size common.Size) {
	if !size.Positive() {
		return
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       size.Width,
		Height:      size.Height,
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
}

// acquire returns the next swapchain texture and a view of it.
func (b *backend) acquire() (*wgpu.Texture, *wgpu.TextureView, error) {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, surfaceError(err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	return surfaceTexture, view, nil
}

func (b *backend) release() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// surfaceError separates lost or outdated swapchains, which a reconfigure fixes, from fatal acquire failures.
func surfaceError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "lost") || strings.Contains(msg, "outdated") {
		return fmt.Errorf("%w: %v", loop.ErrSurfaceLost, err)
	}
	return fmt.Errorf("failed to acquire surface texture: %w", err)
}
