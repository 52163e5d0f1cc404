package decoder

import gopointer "github.com/mattn/go-pointer"

// Handle pins a Go-side decoder state behind an opaque token, the shape
// spec.md §6's "decoder handle" takes when the decoder lives across an
// FFI boundary: create() hands back a handle, decode()/destroy() take it
// back in. gopointer.Save/Restore/Unref is the same mechanism go-gst uses
// to thread a Go object through a C callback and recover it later
// (modules/stream-capture depends on go-gst, which depends on
// github.com/mattn/go-pointer for exactly this).
type Handle struct {
	token uintptr
}

// NewHandle registers state and returns a Handle referencing it.
func NewHandle(state interface{}) Handle {
	return Handle{token: uintptr(gopointer.Save(state))}
}

// Token returns the opaque value a C-side create() call would hand back.
func (h Handle) Token() uintptr { return h.token }

// Restore recovers the Go value a Handle was built from.
func (h Handle) Restore() interface{} {
	return gopointer.Restore(unsafePointerOf(h.token))
}

// Release unpins the Go value; the Handle must not be used afterward.
func (h Handle) Release() {
	gopointer.Unref(unsafePointerOf(h.token))
}
