//go:build !(js && wasm)

package canvas

import "github.com/Carmen-Shannon/oxy-rt/common"

// Native is the Canvas used when the window system owns the surface.
type Native struct{}

var _ Canvas = Native{}

// New returns the Canvas for the current platform.
func New() Canvas {
	return Native{}
}

func (Native) Bind(uint32) error { return nil }

func (Native) Viewport() (common.Size, error) { return common.Size{}, nil }

func (Native) Apply(common.Size) error { return nil }

func (Native) Polling() bool { return false }
