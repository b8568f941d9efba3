package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scheduler"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// releaser is any GPU object owned by a Package.
type releaser interface {
	Release()
}

// PackageDescriptor is everything a Package is built from.
type PackageDescriptor struct {
	// Size is the storage texture size.
	Size common.Size

	// Format is the storage texture format.
	Format wgpu.TextureFormat

	// SurfaceFormat is the color target format of the render pipeline.
	SurfaceFormat wgpu.TextureFormat

	// Compute is the compute shader module.
	Compute *wgpu.ShaderModule

	// Render is the vertex and fragment shader module.
	Render *wgpu.ShaderModule

	// SizeLayout is the group 0 layout shared by both pipelines.
	SizeLayout *wgpu.BindGroupLayout

	// Extra is an optional scheduler buffer bound at compute group 1, binding 1.
	Extra *scheduler.Entry
}

// Package is the set of GPU objects that depend on the render target size. It is built whole,
// used unchanged, and replaced whole.
type Package struct {
	size common.Size

	texture     *wgpu.Texture
	computeView *wgpu.TextureView
	renderView  *wgpu.TextureView

	computeLayout   *wgpu.BindGroupLayout
	computeGroup    *wgpu.BindGroup
	computePipeline *wgpu.ComputePipeline

	renderLayout   *wgpu.BindGroupLayout
	renderGroup    *wgpu.BindGroup
	renderPipeline *wgpu.RenderPipeline

	owned []releaser
}

// BuildPackage allocates the storage texture, its two views, and both pipelines with their bind groups.
// On failure everything created so far is released and no Package is returned.
//
// Parameters:
//   - device: the device to allocate on
//   - desc: target size, formats, shader modules and shared layout
//
// Returns:
//   - *Package: the complete package
//   - error: the first device error encountered
func BuildPackage(device *wgpu.Device, desc PackageDescriptor) (pkg *Package, err error) {
	if !desc.Size.Positive() {
		return nil, fmt.Errorf("package size %s must be positive", desc.Size)
	}

	p := &Package{size: desc.Size}
	defer func() {
		if err != nil {
			p.Release()
			pkg = nil
		}
	}()

	p.texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Frame Texture",
		Size:          desc.Size.Extent3D(),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create frame texture: %w", err)
	}
	p.own(p.texture)

	viewDescriptor := wgpu.TextureViewDescriptor{
		Format:          desc.Format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	}
	computeViewDescriptor := viewDescriptor
	computeViewDescriptor.Label = "Frame Compute View"
	if p.computeView, err = p.texture.CreateView(&computeViewDescriptor); err != nil {
		return nil, fmt.Errorf("failed to create compute view: %w", err)
	}
	p.own(p.computeView)

	renderViewDescriptor := viewDescriptor
	renderViewDescriptor.Label = "Frame Render View"
	if p.renderView, err = p.texture.CreateView(&renderViewDescriptor); err != nil {
		return nil, fmt.Errorf("failed to create render view: %w", err)
	}
	p.own(p.renderView)

	if err = p.buildCompute(device, desc); err != nil {
		return nil, err
	}
	if err = p.buildRender(device, desc); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Package) buildCompute(device *wgpu.Device, desc PackageDescriptor) error {
	layoutEntries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageCompute,
			StorageTexture: wgpu.StorageTextureBindingLayout{
				Access:        wgpu.StorageTextureAccessWriteOnly,
				Format:        desc.Format,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
	}
	groupEntries := []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: p.computeView},
	}
	if desc.Extra != nil {
		layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
			Binding:    1,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type: desc.Extra.Type,
			},
		})
		groupEntries = append(groupEntries, wgpu.BindGroupEntry{
			Binding: 1,
			Buffer:  desc.Extra.Buffer,
			Offset:  0,
			Size:    desc.Extra.Size,
		})
	}

	var err error
	p.computeLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Compute Bind Group Layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to create compute bind group layout: %w", err)
	}
	p.own(p.computeLayout)

	p.computeGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Compute Bind Group",
		Layout:  p.computeLayout,
		Entries: groupEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to create compute bind group: %w", err)
	}
	p.own(p.computeGroup)

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Compute Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{desc.SizeLayout, p.computeLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline layout: %w", err)
	}
	defer layout.Release()

	p.computePipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "Compute Pipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     desc.Compute,
			EntryPoint: shader.ComputeEntryPoint,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline: %w", err)
	}
	p.own(p.computePipeline)
	return nil
}

func (p *Package) buildRender(device *wgpu.Device, desc PackageDescriptor) error {
	var err error
	p.renderLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Render Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render bind group layout: %w", err)
	}
	p.own(p.renderLayout)

	p.renderGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Render Bind Group",
		Layout: p.renderLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.renderView},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render bind group: %w", err)
	}
	p.own(p.renderGroup)

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Render Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{desc.SizeLayout, p.renderLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline layout: %w", err)
	}
	defer layout.Release()

	p.renderPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     desc.Render,
			EntryPoint: shader.VertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{quadVertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     desc.Render,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    desc.SurfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	p.own(p.renderPipeline)
	return nil
}

func (p *Package) own(r releaser) {
	p.owned = append(p.owned, r)
}

// Size returns the storage texture size the package was built for.
func (p *Package) Size() common.Size {
	return p.size
}

// Release frees every GPU object in the package, newest first.
func (p *Package) Release() {
	for i := len(p.owned) - 1; i >= 0; i-- {
		p.owned[i].Release()
	}
	p.owned = nil
}
