// Package playerr defines the sentinel errors for every taxonomy entry the
// playback engine can surface, so callers can branch with errors.Is instead
// of string matching.
package playerr

import "errors"

var (
	// ErrConfig marks an incompatible PlayOptions combination, rejected at
	// construction before any buffer is allocated.
	ErrConfig = errors.New("m4vplay: configuration error")

	// ErrResourceExhausted marks a failed allocation (aligned heap, file
	// buffer, frame buffers, SRAM scratch shadow).
	ErrResourceExhausted = errors.New("m4vplay: resource exhaustion")

	// ErrIO marks a file-open failure or other I/O fault that is not a
	// plain short read.
	ErrIO = errors.New("m4vplay: i/o error")

	// ErrBitstream marks a VOL parse failure, a negative decode return, an
	// unexpected frame-type tag, or a missing VOL start code.
	ErrBitstream = errors.New("m4vplay: bitstream error")

	// ErrStall marks a decoder that consumed zero bytes against a full
	// input buffer.
	ErrStall = errors.New("m4vplay: decoder stalled")

	// ErrGeometryMismatch marks coded dimensions that disagree with the
	// configured screen/rotation.
	ErrGeometryMismatch = errors.New("m4vplay: geometry mismatch")

	// ErrPresentation marks a swap-chain release of a non-member buffer or
	// a full available-index ring (double release).
	ErrPresentation = errors.New("m4vplay: presentation error")

	// ErrUserCancel marks an escape-key abort.
	ErrUserCancel = errors.New("m4vplay: user cancel")

	// ErrEndOfStream marks a queue drained after EOF with no error — kept
	// as a sentinel so callers can still errors.Is it, but Engine.Play
	// returns nil, not this error, on the ordinary happy path (spec.md
	// scenario 2: "failed = false").
	ErrEndOfStream = errors.New("m4vplay: end of stream")
)
