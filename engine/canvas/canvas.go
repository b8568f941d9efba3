// Package canvas binds the drawable surface on targets where the host owns it. Native builds
// get a no-op implementation; js/wasm builds drive an HTML canvas element.
package canvas

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/common"
)

// ElementID is the DOM id assigned to the bound canvas.
const ElementID = "rtrs"

// Canvas is the platform surface collaborator consulted by the frame loop.
type Canvas interface {
	// Bind attaches the drawable surface and tags it with handle.
	//
	// Parameters:
	//   - handle: the raw handle the surface is looked up by
	//
	// Returns:
	//   - error: error if the surface could not be bound
	Bind(handle uint32) error

	// Viewport reads the host's current drawable size.
	//
	// Returns:
	//   - common.Size: the host viewport size
	//   - error: error if the host could not be queried
	Viewport() (common.Size, error)

	// Apply resizes the bound surface after a debounced resize.
	//
	// Parameters:
	//   - size: the new surface size
	//
	// Returns:
	//   - error: error if the surface could not be resized
	Apply(size common.Size) error

	// Polling reports whether resize events must be detected by reading Viewport every frame.
	//
	// Returns:
	//   - bool: true when the host does not deliver resize events
	Polling() bool
}

// Error reports a failed canvas operation.
type Error struct {
	// Op names the failed operation, e.g. "resize" or "find".
	Op string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Unable to %s HTML canvas element: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("Unable to %s HTML canvas element", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}
