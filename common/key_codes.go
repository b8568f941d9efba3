package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyEsc = 256 // Escape key (GLFW)
	KeyQ   = 81  // Q key (ASCII)
)
