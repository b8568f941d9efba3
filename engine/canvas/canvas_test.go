//go:build !(js && wasm)

package canvas

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/stretchr/testify/assert"
)

func TestNative(t *testing.T) {
	c := New()
	assert.NoError(t, c.Bind(2024))
	assert.NoError(t, c.Apply(common.Size{Width: 10, Height: 10}))
	assert.False(t, c.Polling())

	size, err := c.Viewport()
	assert.NoError(t, err)
	assert.False(t, size.Positive())
}

func TestError(t *testing.T) {
	assert.EqualError(t, &Error{Op: "resize"}, "Unable to resize HTML canvas element")

	cause := errors.New("boom")
	err := &Error{Op: "find", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Unable to find HTML canvas element")
}
