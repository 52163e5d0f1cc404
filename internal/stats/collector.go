package stats

import "github.com/handheld-labs/m4vplay/internal/timer"

// RefillSample is the 4-tuple refill-timing record spec.md §3 describes:
// memmove ticks/bytes and fread ticks/bytes for one inputbuffer.Fill
// call.
type RefillSample struct {
	MemmoveTicks uint32
	MemmoveBytes int
	ReadTicks    uint32
	ReadBytes    int
}

// Collector is the append-only profiling-vector store of spec.md §3 and
// §4.10: per-type decode times, wasted-decode attempts, blit times,
// refill timing, pacing waits, and per-frame totals.
type Collector struct {
	DecodeI []uint32
	DecodeP []uint32
	DecodeB []uint32
	DecodeS []uint32
	Wasted  []uint32
	Blit    []uint32

	Refill []RefillSample

	PacingWaits []int32 // signed; negative means the frame ran late
	FrameTotals []uint32

	FramesPresented uint64
	FramesLate      uint64
	StallCount      uint64
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// RecordDecode appends a decode-time sample to the vector matching t.
// VOL and N-VOP outcomes are not decode-time samples in spec.md's model
// (they don't produce a picture) and are ignored here.
func (c *Collector) RecordDecode(t DecodeKind, ticks uint32) {
	switch t {
	case KindI:
		c.DecodeI = append(c.DecodeI, ticks)
	case KindP:
		c.DecodeP = append(c.DecodeP, ticks)
	case KindB:
		c.DecodeB = append(c.DecodeB, ticks)
	case KindS:
		c.DecodeS = append(c.DecodeS, ticks)
	}
}

// RecordWasted appends a wasted-decode-attempt sample (insufficient data
// or over-read, spec.md §4.7).
func (c *Collector) RecordWasted(ticks uint32) { c.Wasted = append(c.Wasted, ticks) }

// RecordBlit appends a presentation blit time sample.
func (c *Collector) RecordBlit(ticks uint32) { c.Blit = append(c.Blit, ticks) }

// RecordRefill appends one file-buffer refill timing sample.
func (c *Collector) RecordRefill(s RefillSample) { c.Refill = append(c.Refill, s) }

// RecordPacingWait appends a signed ticks_to_wait sample and updates the
// late counter when it is negative (spec.md §4.8 step 6, §7 "A
// frame-late event... is recorded... but not acted upon").
func (c *Collector) RecordPacingWait(ticks int32) {
	c.PacingWaits = append(c.PacingWaits, ticks)
	if ticks < 0 {
		c.FramesLate++
	}
}

// RecordFrameTotal appends a per-frame total tick count and increments
// FramesPresented.
func (c *Collector) RecordFrameTotal(ticks uint32) {
	c.FrameTotals = append(c.FrameTotals, ticks)
	c.FramesPresented++
}

// RecordStall increments the stall counter (spec.md §7 "Stall").
func (c *Collector) RecordStall() { c.StallCount++ }

// DecodeKind distinguishes which per-type vector RecordDecode appends
// to, defined locally so this package does not need to import
// internal/decoder (avoiding a dependency cycle, since decoder depends
// on stats to record its own samples).
type DecodeKind int

const (
	KindI DecodeKind = iota
	KindP
	KindB
	KindS
)

// AverageFPS computes spec.md §7's "count / (sum(frame_total_ticks) /
// T_HZ)".
func (c *Collector) AverageFPS() float64 {
	if len(c.FrameTotals) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range c.FrameTotals {
		sum += uint64(v)
	}
	seconds := float64(sum) / float64(timer.T_HZ)
	if seconds == 0 {
		return 0
	}
	return float64(len(c.FrameTotals)) / seconds
}
