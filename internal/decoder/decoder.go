// Package decoder defines the external MPEG-4 decoder contract (spec.md
// §6) and drives the decode pump (spec.md §2 C7, §4.7) that fills the
// swap chain until the in-flight queue is full.
//
// The decoder itself — MPEG-4 bitstream decompression — is treated as an
// external collaborator per spec.md §1; this package never implements
// decompression. It only defines the Go-side boundary and the pump loop
// that drives whatever Decoder is plugged in.
package decoder

// FrameType is the decoder's reported picture type for a Decode call.
type FrameType int

const (
	TypeI FrameType = iota
	TypeP
	TypeB
	TypeS
	TypeVOL
	TypeNVOP // numeric tag 5 in spec.md §6, the decoder's empty-picture marker
)

// Colourspace selects the decoder's output pixel format.
type Colourspace int

const (
	ColourspaceRGB565 Colourspace = iota
	ColourspaceRGB888
	ColourspaceYUVInternal // benchmarking without blit, per spec.md §4.7 step 2
)

// Flags mirrors the decoder post-filter and behavior switches spec.md §6
// lists under PlayOptions.
type Flags struct {
	FastDecode      bool
	LowDelay        bool
	DeblockLuma     bool
	DeblockChroma   bool
	DeringLuma      bool
	DeringChroma    bool
	Discontinuity   bool
}

// Request is one decode call's input: the unread window of the
// file-input buffer and the output plane to decode into.
type Request struct {
	Input        []byte
	OutputPlane  []byte
	OutputStride int
	Colourspace  Colourspace
	Flags        Flags
}

// Result is what the decoder reports back (spec.md §6: "bytes_consumed,
// frame_type, vop_time_base, vop_time_increment, vol_width, vol_height").
type Result struct {
	BytesConsumed int
	Type          FrameType
	TimeBase      uint32
	TimeIncrement uint32
	VOLWidth      int
	VOLHeight     int
}

// Decoder is the external decoder's Go-side contract. A production build
// plugs in a cgo wrapper over the real MPEG-4 decompressor; tests use the
// fake package's scripted implementation.
type Decoder interface {
	// GlobalInit hands the decoder its on-chip SRAM scratch region for
	// lookup tables (spec.md §6), called once before any Decode.
	GlobalInit(sram []byte) error

	// Decode runs one decode step. A negative BytesConsumed marks a fatal
	// decoder error (spec.md §4.7 outcome "r < 0").
	Decode(req Request) (Result, error)

	// Close releases the decoder handle.
	Close() error
}
