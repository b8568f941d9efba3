//go:build js && wasm

package canvas

import (
	"strconv"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-rt/common"
)

// DOM drives an HTML canvas element through syscall/js.
type DOM struct {
	window js.Value
}

var _ Canvas = &DOM{}

// New returns the Canvas for the current platform.
func New() Canvas {
	return &DOM{window: js.Global()}
}

func (d *DOM) document() (js.Value, error) {
	doc := d.window.Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return js.Value{}, &Error{Op: "access document for"}
	}
	return doc, nil
}

// Bind creates the canvas, strips host styling, tags it with handle and appends it to the body.
func (d *DOM) Bind(handle uint32) error {
	doc, err := d.document()
	if err != nil {
		return err
	}
	size, err := d.Viewport()
	if err != nil {
		return err
	}

	elem := doc.Call("createElement", "canvas")
	if elem.IsNull() || elem.IsUndefined() {
		return &Error{Op: "create"}
	}
	elem.Call("removeAttribute", "style")
	elem.Call("setAttribute", "data-raw-handle", strconv.FormatUint(uint64(handle), 10))
	elem.Set("id", ElementID)
	elem.Set("width", size.Width)
	elem.Set("height", size.Height)

	body := doc.Get("body")
	if body.IsNull() || body.IsUndefined() {
		return &Error{Op: "append"}
	}
	body.Call("appendChild", elem)
	return nil
}

// Viewport reads the window's inner size.
func (d *DOM) Viewport() (common.Size, error) {
	w, h := d.window.Get("innerWidth"), d.window.Get("innerHeight")
	if w.Type() != js.TypeNumber || h.Type() != js.TypeNumber {
		return common.Size{}, &Error{Op: "measure"}
	}
	return common.NewSize(w.Int(), h.Int()), nil
}

// Apply sets the canvas backing size.
func (d *DOM) Apply(size common.Size) error {
	doc, err := d.document()
	if err != nil {
		return err
	}
	elem := doc.Call("getElementById", ElementID)
	if elem.IsNull() || elem.IsUndefined() {
		return &Error{Op: "find"}
	}
	elem.Set("width", size.Width)
	elem.Set("height", size.Height)
	return nil
}

// Polling is true: browsers do not forward resize events to the surface.
func (d *DOM) Polling() bool { return true }
