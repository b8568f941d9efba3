package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the native surface the loop renders into and forwards its events.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer size in pixels
	SetResizeCallback(callback func(size common.Size))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the native window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still open.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop until the window is closed,
	// calling the update callback each iteration.
	ProcessMessages()

	// Size returns the current framebuffer size in pixels.
	Size() common.Size
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minSize and maxSize bound user resizes. Zero components are unbounded.
	minSize common.Size
	maxSize common.Size

	// size is the current framebuffer size in pixels.
	size common.Size

	// closeKeys request a close when pressed.
	closeKeys map[uint32]struct{}

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(size common.Size)
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a Window with the specified options.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-rt",
		minSize:   common.Size{Width: 64, Height: 64},
		size:      common.Size{Width: 1280, Height: 720},
		closeKeys: map[uint32]struct{}{common.KeyEsc: {}},
	}
	for _, opt := range options {
		opt(w)
	}
	if !w.size.Positive() {
		return nil, fmt.Errorf("window size %s must be positive", w.size)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(size common.Size)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Size() common.Size {
	return w.size
}

// keyDown routes a key press: close keys end the loop, everything else reaches the callback.
// It reports whether the key requested a close.
func (w *engineWindow) keyDown(keyCode uint32) bool {
	if _, ok := w.closeKeys[keyCode]; ok {
		return true
	}
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
	return false
}

// resized records a framebuffer change and forwards it.
func (w *engineWindow) resized(size common.Size) {
	w.size = size
	if w.onResize != nil {
		w.onResize(size)
	}
}
