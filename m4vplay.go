// Package m4vplay re-exports the playback engine's public contract as a
// stable surface, the way modules/framebus/api.go re-exports its
// internal bus package's types and errors.
package m4vplay

import (
	"github.com/handheld-labs/m4vplay/internal/decoder"
	"github.com/handheld-labs/m4vplay/internal/decoder/native"
	"github.com/handheld-labs/m4vplay/internal/engine"
	"github.com/handheld-labs/m4vplay/internal/playconfig"
	"github.com/handheld-labs/m4vplay/internal/playerr"
)

// Config is the PlayOptions surface of spec.md §6.
type Config = playconfig.Config

// DefaultConfig returns the documented default PlayOptions.
func DefaultConfig() Config { return playconfig.Default() }

// Engine is the playback engine façade.
type Engine = engine.Engine

// New constructs an Engine from cfg, using newDec to build the decoder
// implementation for each Play call. Pass nil to get a Wrapper with no
// hooks bound (GlobalInit then fails, since the decompressor itself is
// an external collaborator this repo does not implement).
func New(cfg Config, newDec func() decoder.Decoder) (*Engine, error) {
	if newDec == nil {
		newDec = func() decoder.Decoder { return native.New(native.Hooks{}) }
	}
	return engine.New(cfg, newDec)
}

// Decoder and DecoderHooks let a caller plug in a real MPEG-4
// decompressor without reaching into internal/decoder directly.
type Decoder = decoder.Decoder
type DecoderHooks = native.Hooks

// NewNativeDecoder adapts DecoderHooks to Decoder.
func NewNativeDecoder(hooks DecoderHooks) Decoder { return native.New(hooks) }

// Sentinel errors, re-exported for errors.Is.
var (
	ErrConfig            = playerr.ErrConfig
	ErrResourceExhausted = playerr.ErrResourceExhausted
	ErrIO                = playerr.ErrIO
	ErrBitstream         = playerr.ErrBitstream
	ErrStall             = playerr.ErrStall
	ErrGeometryMismatch  = playerr.ErrGeometryMismatch
	ErrPresentation      = playerr.ErrPresentation
	ErrUserCancel        = playerr.ErrUserCancel
	ErrEndOfStream       = playerr.ErrEndOfStream
)
