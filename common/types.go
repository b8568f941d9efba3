// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Size is a pixel extent reported by the window or canvas, or requested by the resolution policy.
type Size struct {
	// Width is the horizontal extent in pixels.
	Width uint32
	// Height is the vertical extent in pixels.
	Height uint32
}

// NewSize builds a Size from signed platform dimensions, clamping negatives to zero.
//
// Parameters:
//   - width: width in pixels as reported by the platform
//   - height: height in pixels as reported by the platform
//
// Returns:
//   - Size: the unsigned size
func NewSize(width, height int) Size {
	return Size{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))}
}

// Positive reports whether both dimensions are non-zero. Sizes failing this check are never applied.
//
// Returns:
//   - bool: true if width and height are both greater than zero
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// Extent3D converts the size to a single-layer wgpu extent.
//
// Returns:
//   - wgpu.Extent3D: the extent with DepthOrArrayLayers set to 1
func (s Size) Extent3D() wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              s.Width,
		Height:             s.Height,
		DepthOrArrayLayers: 1,
	}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
