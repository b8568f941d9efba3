package window

import "github.com/Carmen-Shannon/oxy-rt/common"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - size: initial size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(size common.Size) WindowBuilderOption {
	return func(w *engineWindow) {
		w.size = size
	}
}

// WithMinSize sets the smallest size a user resize may reach.
func WithMinSize(size common.Size) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minSize = size
	}
}

// WithMaxSize sets the largest size a user resize may reach. Zero components are unbounded.
func WithMaxSize(size common.Size) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxSize = size
	}
}

// WithCloseKeys replaces the keys that close the window. Escape is the default.
//
// Parameters:
//   - keys: key codes that request a close
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseKeys(keys ...uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeKeys = make(map[uint32]struct{}, len(keys))
		for _, k := range keys {
			w.closeKeys[k] = struct{}{}
		}
	}
}
