// Package native wraps an external MPEG-4 decompressor behind the
// decoder.Decoder contract, using a gopointer-backed Handle to pin the
// decoder's opaque state the way a C ABI create/decode/destroy triple
// would thread a handle through each call (internal/decoder's Handle and
// unsafePointerOf, grounded on go-gst's use of
// github.com/mattn/go-pointer to cross the same kind of boundary).
//
// The decompressor itself is an external collaborator spec.md §1 puts
// out of scope; Hooks is the seam a production build fills in with the
// real cgo bindings. Wrapper only owns the handle lifecycle and the
// Decoder-shaped forwarding.
package native

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/decoder"
)

// Hooks are the three calls a linked-in decompressor must provide.
// Create receives the SRAM scratch region and returns whatever opaque
// state the implementation needs pinned across calls.
type Hooks struct {
	Create  func(sram []byte) (interface{}, error)
	Decode  func(state interface{}, req decoder.Request) (decoder.Result, error)
	Destroy func(state interface{}) error
}

// Wrapper adapts Hooks to decoder.Decoder.
type Wrapper struct {
	hooks Hooks
	h     decoder.Handle
	bound bool
}

// New returns a Wrapper over hooks. hooks.Create must be non-nil by the
// time GlobalInit is called.
func New(hooks Hooks) *Wrapper {
	return &Wrapper{hooks: hooks}
}

func (w *Wrapper) GlobalInit(sram []byte) error {
	if w.hooks.Create == nil {
		return fmt.Errorf("native: no decoder implementation linked in")
	}
	state, err := w.hooks.Create(sram)
	if err != nil {
		return err
	}
	w.h = decoder.NewHandle(state)
	w.bound = true
	return nil
}

func (w *Wrapper) Decode(req decoder.Request) (decoder.Result, error) {
	if !w.bound {
		return decoder.Result{}, fmt.Errorf("native: Decode called before GlobalInit")
	}
	state := w.h.Restore()
	return w.hooks.Decode(state, req)
}

func (w *Wrapper) Close() error {
	if !w.bound {
		return nil
	}
	state := w.h.Restore()
	err := w.hooks.Destroy(state)
	w.h.Release()
	w.bound = false
	return err
}
