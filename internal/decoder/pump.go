package decoder

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/inflight"
	"github.com/handheld-labs/m4vplay/internal/inputbuffer"
	"github.com/handheld-labs/m4vplay/internal/playerr"
	"github.com/handheld-labs/m4vplay/internal/stats"
	"github.com/handheld-labs/m4vplay/internal/swapchain"
	"github.com/handheld-labs/m4vplay/internal/volparser"
)

// PlaneOf extracts the mutable output-plane bytes and stride from a
// frame-buffer reference of type F, so Pump stays agnostic to whatever
// concrete buffer variant internal/lcd defines.
type PlaneOf[F comparable] func(F) (plane []byte, stride int)

// Pump drives the decode loop of spec.md §4.7: synchronously invoke the
// decoder until the in-flight queue is full or no swap-chain buffer is
// available, handling VOL/N-VOP/insufficient-data/over-read/error
// outcomes.
type Pump[F comparable] struct {
	Chain  *swapchain.Chain[F]
	Queue  *inflight.Queue[F]
	Input  *inputbuffer.Buffer
	Dec    Decoder
	Stats  *stats.Collector
	Tick   func() uint32
	Plane  PlaneOf[F]

	Colourspace Colourspace
	Flags       Flags

	VOL           volparser.Info
	EOFReached    bool
	discontinuity bool
}

// isPicture reports whether t is one of the four VOP types that produce
// a displayable picture.
func isPicture(t FrameType) bool {
	switch t {
	case TypeI, TypeP, TypeB, TypeS:
		return true
	default:
		return false
	}
}

func kindFor(t FrameType) stats.DecodeKind {
	switch t {
	case TypeI:
		return stats.KindI
	case TypeP:
		return stats.KindP
	case TypeB:
		return stats.KindB
	default:
		return stats.KindS
	}
}

// FillUntilFull runs the pump loop until the in-flight queue is full or
// no more progress can be made (buffer exhausted and EOF reached). A
// non-nil error is always fatal per spec.md §7.
func (p *Pump[F]) FillUntilFull() error {
	for !p.Queue.Full() {
		buf, ok := p.Chain.Acquire()
		if !ok {
			return nil
		}

		plane, stride := p.Plane(buf)
		req := Request{
			Input:        p.Input.Window(),
			OutputPlane:  plane,
			OutputStride: stride,
			Colourspace:  p.Colourspace,
			Flags:        p.flagsForThisCall(),
		}

		availBefore := p.Input.Avail()
		start := p.Tick()
		res, err := p.Dec.Decode(req)
		elapsed := p.Tick() - start

		if err != nil {
			_ = p.Chain.Release(buf)
			return fmt.Errorf("%w: decoder reported an error: %v", playerr.ErrBitstream, err)
		}

		switch {
		case res.BytesConsumed < 0:
			_ = p.Chain.Release(buf)
			return fmt.Errorf("%w: decoder returned negative bytes consumed", playerr.ErrBitstream)

		case res.BytesConsumed == 0 || res.BytesConsumed > availBefore:
			p.Stats.RecordWasted(elapsed)
			_ = p.Chain.Release(buf)

			if availBefore == inputbuffer.Capacity {
				if res.BytesConsumed > availBefore {
					return fmt.Errorf("%w: decoder over-read %d bytes from a full %d-byte window", playerr.ErrStall, res.BytesConsumed, availBefore)
				}
				return fmt.Errorf("%w: decoder consumed 0 bytes against a full input buffer", playerr.ErrStall)
			}

			more, refill, ferr := p.Input.Fill(inputbuffer.Capacity)
			p.Stats.RecordRefill(stats.RefillSample(refill))
			if ferr != nil {
				return fmt.Errorf("%w: %v", playerr.ErrIO, ferr)
			}
			if !more {
				p.EOFReached = true
				// Trailing bytes too short to form another complete frame.
				// Retrying the decode call would see the same input and the
				// same EOF state forever, so drop them and stop cleanly
				// instead, matching a stream truncated mid-last-frame
				// (spec.md Concrete Scenario 2).
				if rem := p.Input.Avail(); rem != 0 {
					p.Input.Advance(rem)
				}
				return nil
			}
			// discontinuity is deliberately left untouched on this path;
			// spec.md §9 notes the source does not set it here either.

		case isPicture(res.Type):
			p.Stats.RecordDecode(kindFor(res.Type), elapsed)
			timing := uint64(res.TimeBase)*uint64(p.VOL.R) + uint64(res.TimeIncrement)
			if !p.Queue.Push(inflight.Record[F]{TimingTicks: timing, Frame: buf}) {
				return fmt.Errorf("%w: in-flight queue push failed with room reported available", playerr.ErrPresentation)
			}
			p.Input.Advance(res.BytesConsumed)
			p.discontinuity = false

		case res.Type == TypeVOL:
			if info := volparser.ParseFromStream(p.Input.Window()); info.OK {
				p.VOL = info
			}
			// The decoder parses the full VOL header itself and reports
			// geometry directly (spec.md §6), which is authoritative over
			// this package's own bitstream parse — in particular for
			// non-rectangular shapes, where volparser.Info carries no
			// width/height at all.
			if res.VOLWidth != 0 && res.VOLHeight != 0 {
				p.VOL.Width = res.VOLWidth
				p.VOL.Height = res.VOLHeight
			}
			_ = p.Chain.Release(buf)
			p.Input.Advance(res.BytesConsumed)
			p.discontinuity = false

		case res.Type == TypeNVOP:
			_ = p.Chain.Release(buf)
			p.Input.Advance(res.BytesConsumed)
			p.discontinuity = false

		default:
			_ = p.Chain.Release(buf)
			return fmt.Errorf("%w: unexpected decoder frame type %v", playerr.ErrBitstream, res.Type)
		}
	}
	return nil
}

func (p *Pump[F]) flagsForThisCall() Flags {
	f := p.Flags
	f.Discontinuity = p.discontinuity
	return f
}

// SetDiscontinuity flags the next decode call as following a
// discontinuous input window (spec.md §4.7 step 3).
func (p *Pump[F]) SetDiscontinuity() { p.discontinuity = true }
