package loop

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/common"
)

// ErrSurfaceLost is wrapped by Stage.Render when the surface must be reconfigured
// before the next frame can be acquired.
var ErrSurfaceLost = errors.New("surface lost or outdated")

// Stage is the GPU side of the loop: surface, resource package, update and render steps.
type Stage interface {
	// Configure reconfigures the presentation surface to size.
	//
	// Parameters:
	//   - size: the new drawable size, both dimensions positive
	//
	// Returns:
	//   - error: error if the surface could not be configured
	Configure(size common.Size) error

	// Rebuild replaces the pipeline resource package with one sized to size.
	//
	// Parameters:
	//   - size: the render target size
	//
	// Returns:
	//   - error: error if any resource in the new package could not be created
	Rebuild(size common.Size) error

	// WriteSize uploads the render target size to the shared uniform.
	//
	// Parameters:
	//   - size: the resolved render target size
	//
	// Returns:
	//   - error: error if the upload failed
	WriteSize(size common.Size) error

	// Update runs one compute step unless the previous round trip is still in flight.
	//
	// Returns:
	//   - bool: true if a compute step was submitted
	//   - error: error if encoding or submission failed
	Update() (bool, error)

	// Render draws the current storage texture to the surface and presents it.
	//
	// Returns:
	//   - error: an error wrapping ErrSurfaceLost when recoverable, otherwise a fatal error
	Render() error
}

// Step names the part of a frame an error came from.
type Step string

const (
	StepCanvas Step = "canvas"
	StepResize Step = "resize"
	StepUpdate Step = "update"
	StepRender Step = "render"
)

// StepError attributes a deferred frame error to the step that raised it.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
