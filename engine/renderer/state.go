// Package renderer owns the GPU side of the loop: device and surface, the size uniform,
// the quad geometry and the size-dependent Pipeline Resource Package.
package renderer

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/loop"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scheduler"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// sizeUniformSize is the byte size of the shared uniform: width, height, tick, padding.
const sizeUniformSize = 16

// tickOffset is the byte offset of the tick counter inside the uniform.
const tickOffset = 8

// clearColor is the render pass clear value.
var clearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// State implements loop.Stage on a WebGPU device.
type State struct {
	backend   *backend
	scheduler scheduler.Scheduler
	logger    *zap.Logger

	format       wgpu.TextureFormat
	workgroupDim uint32

	computeModule *wgpu.ShaderModule
	renderModule  *wgpu.ShaderModule

	sizeBuffer *wgpu.Buffer
	sizeLayout *wgpu.BindGroupLayout
	sizeGroup  *wgpu.BindGroup

	vertices *wgpu.Buffer
	indices  *wgpu.Buffer

	pkg  *Package
	tick uint32
}

var _ loop.Stage = &State{}

// NewState acquires the device, configures the surface for window and builds every GPU object
// the loop needs, including the scheduler produced by factory.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the window
//   - cfg: the launch configuration
//   - window: the current drawable size
//   - factory: the scheduler constructor
//   - options: functional options for logging and adapter selection
//
// Returns:
//   - *State: the ready stage
//   - error: the first setup failure
func NewState(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg config.Config, window common.Size, factory scheduler.Factory, options ...StateBuilderOption) (*State, error) {
	o := stateOptions{logger: zap.NewNop()}
	for _, opt := range options {
		opt(&o)
	}
	if !window.Positive() {
		return nil, fmt.Errorf("window size %s must be positive", window)
	}

	sources, err := shader.Load(shader.Params{
		WorkgroupDim: cfg.Resolution.WorkgroupDim(),
		Format:       cfg.Format,
	})
	if err != nil {
		return nil, err
	}

	b, err := newBackend(surfaceDescriptor, scheduler.RequiredFeatures(cfg.Scheduler), cfg.VSync, o.forceFallbackAdapter)
	if err != nil {
		return nil, err
	}

	s := &State{
		backend:      b,
		logger:       o.logger.Named("renderer"),
		format:       cfg.Format,
		workgroupDim: cfg.Resolution.WorkgroupDim(),
	}
	if err := s.init(sources, cfg, window, factory); err != nil {
		s.Release()
		return nil, err
	}

	s.logger.Info("renderer ready",
		zap.Stringer("window", window),
		zap.Stringer("target", s.pkg.Size()),
		zap.Stringer("resolution", cfg.Resolution),
		zap.Uint32("workgroup", s.workgroupDim),
		zap.Stringer("scheduler", cfg.Scheduler),
	)
	return s, nil
}

func (s *State) init(sources shader.Sources, cfg config.Config, window common.Size, factory scheduler.Factory) error {
	device := s.backend.device
	s.backend.configure(window)

	var err error
	s.computeModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Compute Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: sources.Compute},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute shader module: %w", err)
	}
	s.renderModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Render Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: sources.Render},
	})
	if err != nil {
		return fmt.Errorf("failed to create render shader module: %w", err)
	}

	target := cfg.Resolution.Resolve(window)
	s.sizeBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Size Uniform Buffer",
		Contents: sizeUniformBytes(target, 0),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create size uniform: %w", err)
	}

	s.sizeLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Size Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute | wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create size bind group layout: %w", err)
	}

	s.sizeGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Size Bind Group",
		Layout: s.sizeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: s.sizeBuffer, Offset: 0, Size: sizeUniformSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create size bind group: %w", err)
	}

	s.vertices, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Vertex Buffer",
		Contents: quadVertexBytes(),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	s.indices, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Index Buffer",
		Contents: quadIndexBytes(),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("failed to create index buffer: %w", err)
	}

	s.scheduler, err = factory(device, s.backend.queue)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	return s.Rebuild(target)
}

// Configure reconfigures the surface for a new window size.
func (s *State) Configure(size common.Size) error {
	s.backend.configure(size)
	return nil
}

// Rebuild swaps in a Package sized to size. The previous package stays in use if the build fails.
func (s *State) Rebuild(size common.Size) error {
	pkg, err := BuildPackage(s.backend.device, PackageDescriptor{
		Size:          size,
		Format:        s.format,
		SurfaceFormat: s.backend.surfaceFormat,
		Compute:       s.computeModule,
		Render:        s.renderModule,
		SizeLayout:    s.sizeLayout,
		Extra:         s.scheduler.Entry(),
	})
	if err != nil {
		return fmt.Errorf("failed to rebuild resources at %s: %w", size, err)
	}
	if s.pkg != nil {
		s.pkg.Release()
	}
	s.pkg = pkg
	s.logger.Debug("resources rebuilt", zap.Stringer("size", size))
	return nil
}

// WriteSize uploads width and height to the shared uniform.
func (s *State) WriteSize(size common.Size) error {
	if err := s.backend.queue.WriteBuffer(s.sizeBuffer, 0, sizeUniformBytes(size, s.tick)[:tickOffset]); err != nil {
		return fmt.Errorf("failed to write size uniform: %w", err)
	}
	return nil
}

// Update dispatches one compute step over the package's storage texture, unless the scheduler
// reports the previous submission is still in flight.
func (s *State) Update() (bool, error) {
	if !s.scheduler.Ready() {
		return false, nil
	}

	s.tick++
	tick := binary.LittleEndian.AppendUint32(nil, s.tick)
	if err := s.backend.queue.WriteBuffer(s.sizeBuffer, tickOffset, tick); err != nil {
		return false, fmt.Errorf("failed to write tick: %w", err)
	}

	encoder, err := s.backend.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Update Encoder"})
	if err != nil {
		return false, fmt.Errorf("failed to create update encoder: %w", err)
	}
	defer encoder.Release()

	if err := s.scheduler.Begin(encoder); err != nil {
		return false, err
	}

	x, y := dispatchSize(s.pkg.Size(), s.workgroupDim)
	pass := encoder.BeginComputePass(s.scheduler.Descriptor())
	pass.SetPipeline(s.pkg.computePipeline)
	pass.SetBindGroup(0, s.sizeGroup, nil)
	pass.SetBindGroup(1, s.pkg.computeGroup, nil)
	pass.DispatchWorkgroups(x, y, 1)
	err = pass.End()
	pass.Release()
	if err != nil {
		return false, fmt.Errorf("failed to end compute pass: %w", err)
	}

	if err := s.scheduler.Pre(encoder); err != nil {
		return false, err
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return false, fmt.Errorf("failed to finish update encoder: %w", err)
	}
	s.backend.queue.Submit(commandBuffer)
	commandBuffer.Release()

	if err := s.scheduler.Post(s.backend.device, s.backend.queue); err != nil {
		return true, err
	}
	return true, nil
}

// Render draws the storage texture over the whole surface and presents the frame.
func (s *State) Render() error {
	surfaceTexture, view, err := s.backend.acquire()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()
	defer view.Release()

	encoder, err := s.backend.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Render Encoder"})
	if err != nil {
		return fmt.Errorf("failed to create render encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearColor,
			},
		},
	})
	pass.SetPipeline(s.pkg.renderPipeline)
	pass.SetBindGroup(0, s.sizeGroup, nil)
	pass.SetBindGroup(1, s.pkg.renderGroup, nil)
	pass.SetVertexBuffer(0, s.vertices, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(s.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	err = pass.End()
	pass.Release()
	if err != nil {
		return fmt.Errorf("failed to end render pass: %w", err)
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish render encoder: %w", err)
	}
	s.backend.queue.Submit(commandBuffer)
	commandBuffer.Release()

	s.backend.surface.Present()
	return nil
}

// Release frees every GPU object, the scheduler and the device.
func (s *State) Release() {
	if s.pkg != nil {
		s.pkg.Release()
		s.pkg = nil
	}
	if s.scheduler != nil {
		s.scheduler.Release()
		s.scheduler = nil
	}
	if s.indices != nil {
		s.indices.Release()
		s.indices = nil
	}
	if s.vertices != nil {
		s.vertices.Release()
		s.vertices = nil
	}
	if s.sizeGroup != nil {
		s.sizeGroup.Release()
		s.sizeGroup = nil
	}
	if s.sizeLayout != nil {
		s.sizeLayout.Release()
		s.sizeLayout = nil
	}
	if s.sizeBuffer != nil {
		s.sizeBuffer.Release()
		s.sizeBuffer = nil
	}
	if s.renderModule != nil {
		s.renderModule.Release()
		s.renderModule = nil
	}
	if s.computeModule != nil {
		s.computeModule.Release()
		s.computeModule = nil
	}
	s.backend.release()
}

// sizeUniformBytes encodes the shared uniform in little-endian order.
func sizeUniformBytes(size common.Size, tick uint32) []byte {
	buf := make([]byte, 0, sizeUniformSize)
	buf = binary.LittleEndian.AppendUint32(buf, size.Width)
	buf = binary.LittleEndian.AppendUint32(buf, size.Height)
	buf = binary.LittleEndian.AppendUint32(buf, tick)
	return binary.LittleEndian.AppendUint32(buf, 0)
}

// dispatchSize is the number of whole dim x dim tiles in size. Edge texels past the last
// whole tile are left unwritten.
func dispatchSize(size common.Size, dim uint32) (uint32, uint32) {
	return size.Width / dim, size.Height / dim
}
