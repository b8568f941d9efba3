package config

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/common"
)

// maxWorkgroupInvocations is the per-workgroup invocation limit guaranteed by every WebGPU adapter.
const maxWorkgroupInvocations = 256

// fallbackWorkgroupDim is used whenever the derived dimension would exceed maxWorkgroupInvocations.
const fallbackWorkgroupDim = 16

type resolutionKind int

const (
	resolutionTile resolutionKind = iota
	resolutionFixed
)

// Resolution decides how big the render target is and how large each compute workgroup is.
// Exactly one of the two forms is active: a fixed pixel size or a workgroup tile that lets
// the render target follow the window.
type Resolution struct {
	kind  resolutionKind
	fixed common.Size
	tile  uint32
}

// Fixed returns a Resolution that pins the render target to width x height.
// Window resizes still reconfigure the surface but never rebuild GPU resources.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - Resolution: the fixed resolution policy
func Fixed(width, height uint32) Resolution {
	return Resolution{kind: resolutionFixed, fixed: common.Size{Width: width, Height: height}}
}

// WorkgroupTile returns a Resolution whose render target tracks the window size,
// with n as the square workgroup edge.
//
// Parameters:
//   - n: the workgroup edge length
//
// Returns:
//   - Resolution: the tracking resolution policy
func WorkgroupTile(n uint32) Resolution {
	return Resolution{kind: resolutionTile, tile: n}
}

// Tracks reports whether the render target follows the window size.
func (r Resolution) Tracks() bool {
	return r.kind == resolutionTile
}

// FixedSize returns the pinned size and true for a fixed policy.
func (r Resolution) FixedSize() (common.Size, bool) {
	return r.fixed, r.kind == resolutionFixed
}

// Tile returns the workgroup edge and true for a tracking policy.
func (r Resolution) Tile() (uint32, bool) {
	return r.tile, r.kind == resolutionTile
}

// Resolve returns the render target size for the given window size.
//
// Parameters:
//   - window: the current drawable size of the window
//
// Returns:
//   - common.Size: the fixed size under Fixed, otherwise window unchanged
func (r Resolution) Resolve(window common.Size) common.Size {
	if r.kind == resolutionFixed {
		return r.fixed
	}
	return window
}

// WorkgroupDim returns the square workgroup edge used by the compute shader and the dispatch.
// Fixed sizes use the GCD of width and height so the tiles divide the target evenly. The result
// is replaced by 16 whenever its square would exceed 256 invocations.
//
// Returns:
//   - uint32: the workgroup edge length
func (r Resolution) WorkgroupDim() uint32 {
	dim := r.tile
	if r.kind == resolutionFixed {
		dim = common.GCD(r.fixed.Width, r.fixed.Height)
	}
	if uint64(dim)*uint64(dim) > maxWorkgroupInvocations {
		return fallbackWorkgroupDim
	}
	return dim
}

func (r Resolution) validate() error {
	switch r.kind {
	case resolutionFixed:
		if !r.fixed.Positive() {
			return fmt.Errorf("fixed resolution %s must have positive dimensions", r.fixed)
		}
	case resolutionTile:
		if r.tile == 0 {
			return fmt.Errorf("workgroup tile must be positive")
		}
	}
	return nil
}

func (r Resolution) String() string {
	if r.kind == resolutionFixed {
		return "fixed:" + r.fixed.String()
	}
	return fmt.Sprintf("tile:%d", r.tile)
}
