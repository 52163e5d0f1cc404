package decoder

import "unsafe"

// unsafePointerOf converts the uintptr token form (the shape a C decoder
// handle actually takes) back to the unsafe.Pointer gopointer's API
// wants. Safe here because the Go object behind the token is kept
// reachable by gopointer's internal registry for as long as the token is
// valid, so no GC-moved-before-use hazard exists (Go's GC additionally
// does not move heap objects today).
func unsafePointerOf(token uintptr) unsafe.Pointer {
	return unsafe.Pointer(token) //nolint:govet // intentional uintptr->pointer per C handle contract
}
