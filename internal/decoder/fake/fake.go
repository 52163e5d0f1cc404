// Package fake provides a deterministic, scripted Decoder used by the
// engine's own tests (spec.md's decoder is an external collaborator with
// no reference Go implementation in the retrieved pack; this mirrors
// internal/stream.NewMockStream in References/orion-prototipe, which
// exists purely so the surrounding orchestration can be tested without a
// real camera).
package fake

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/decoder"
)

// Step is one scripted Decode outcome.
type Step struct {
	Consumed  int
	Type      decoder.FrameType
	Base      uint32
	Inc       uint32
	VOLWidth  int // only meaningful when Type == decoder.TypeVOL
	VOLHeight int
	Err       error // non-nil makes Decode return (Result{}, Err)
}

// Decoder replays a fixed Steps sequence, one per Decode call, then
// repeats the last step forever (useful for driving an EOF/stall tail
// without scripting every remaining call).
type Decoder struct {
	Steps []Step
	calls int
	sram  []byte
	fill  byte // pattern written into the output plane, for rotation/blit tests
}

// New returns a Decoder that writes fillByte into every output plane it
// is asked to decode into, useful for presentation-path tests that only
// care that *something* distinguishable landed in the frame buffer.
func New(steps []Step, fillByte byte) *Decoder {
	return &Decoder{Steps: steps, fill: fillByte}
}

func (d *Decoder) GlobalInit(sram []byte) error {
	if len(sram) == 0 {
		return fmt.Errorf("fake decoder: empty SRAM region")
	}
	d.sram = sram
	return nil
}

func (d *Decoder) Decode(req decoder.Request) (decoder.Result, error) {
	if len(d.Steps) == 0 {
		return decoder.Result{}, fmt.Errorf("fake decoder: no steps scripted")
	}
	idx := d.calls
	if idx >= len(d.Steps) {
		idx = len(d.Steps) - 1
	}
	d.calls++
	s := d.Steps[idx]
	if s.Err != nil {
		return decoder.Result{}, s.Err
	}
	if s.Consumed > len(req.Input) && s.Consumed >= 0 {
		// Over-read outcome: report consuming more than was offered.
	}
	if s.Type == decoder.TypeI || s.Type == decoder.TypeP ||
		s.Type == decoder.TypeB || s.Type == decoder.TypeS {
		for i := range req.OutputPlane {
			req.OutputPlane[i] = d.fill
		}
	}
	return decoder.Result{
		BytesConsumed: s.Consumed,
		Type:          s.Type,
		TimeBase:      s.Base,
		TimeIncrement: s.Inc,
		VOLWidth:      s.VOLWidth,
		VOLHeight:     s.VOLHeight,
	}, nil
}

func (d *Decoder) Close() error { return nil }

// Calls reports how many times Decode has been invoked.
func (d *Decoder) Calls() int { return d.calls }
