// Package inputbuffer implements the bounded file-input byte buffer the
// decode pump reads from (spec.md §3 "File-input buffer", §4.5).
package inputbuffer

import (
	"io"
)

// Capacity is B in spec.md §3: 128 KiB minus the 32-byte decoder safety
// pad.
const Capacity = 131072 - 32

// padSize is the trailing zero-filled margin the decoder is allowed to
// read past the end of avail bytes without walking off the buffer.
const padSize = 32

// Reader is the minimal file contract this buffer needs: a byte source
// that returns io.EOF (or any error) on exhaustion, matching os.File's
// Read semantics closely enough that *os.File satisfies it directly.
type Reader interface {
	Read(p []byte) (n int, err error)
}

// RefillTiming is one sample of the timing record spec.md §3 describes:
// memmove ticks/bytes and fread ticks/bytes for a single Fill call.
type RefillTiming struct {
	MemmoveTicks uint32
	MemmoveBytes int
	ReadTicks    uint32
	ReadBytes    int
}

// Buffer is the compact-and-refill byte region of spec.md §4.5. head is
// the next unread byte offset, avail is the unread count; the invariant
// head+avail <= Capacity holds after every public call.
type Buffer struct {
	data  []byte // Capacity + padSize bytes; [Capacity:] is the zero pad
	head  int
	avail int

	r    Reader
	eof  bool
	tick func() uint32 // timer sample hook, swappable for deterministic tests

	lastMemmoveTicks int64
	lastMemmoveBytes int64
	lastReadTicks    int64
	lastReadBytes    int64
}

// New allocates a Buffer reading from r. tick samples a free-running
// counter for timing measurement (spec.md §4.5); pass nil to disable
// timing (tests that don't care get zero tick fields in RefillTiming;
// the byte counts are still filled in).
func New(r Reader, tick func() uint32) *Buffer {
	if tick == nil {
		tick = func() uint32 { return 0 }
	}
	return &Buffer{
		data: make([]byte, Capacity+padSize),
		r:    r,
		tick: tick,
	}
}

// Window returns the decoder-visible bytes, [head, head+avail).
func (b *Buffer) Window() []byte { return b.data[b.head : b.head+b.avail] }

// Head returns the current head offset.
func (b *Buffer) Head() int { return b.head }

// Avail returns the current unread byte count.
func (b *Buffer) Avail() int { return b.avail }

// EOF reports whether the underlying reader has signaled exhaustion.
func (b *Buffer) EOF() bool { return b.eof }

// Advance consumes n bytes from the front of the window after a
// successful decode step (spec.md §4.5 "advance").
func (b *Buffer) Advance(n int) {
	b.head += n
	b.avail -= n
}

// Fill implements spec.md §4.5's fill algorithm:
//  1. compact [head, head+avail) to [0, avail), head = 0
//  2. compute free space and the capped read request
//  3. if there's no free space, report "more may be available" without
//     touching the reader
//  4. otherwise read once and report whether the read filled the request
//     (true => more data may exist, false => short read => EOF)
func (b *Buffer) Fill(requested int) (bool, RefillTiming, error) {
	var rt RefillTiming

	if b.head > 0 {
		if b.avail > 0 {
			start := b.tick()
			copy(b.data[0:b.avail], b.data[b.head:b.head+b.avail])
			rt.MemmoveTicks = b.tick() - start
			rt.MemmoveBytes = b.avail
			b.lastMemmoveTicks = int64(rt.MemmoveTicks)
			b.lastMemmoveBytes = int64(rt.MemmoveBytes)
		}
		// head resets to 0 whenever it was nonzero, even with avail == 0:
		// there's nothing left to preserve, but a stale head would desync
		// Window() from where Fill is about to write (spec.md §8: "after
		// any fill, head == 0").
		b.head = 0
	}

	free := Capacity - b.avail
	toRead := requested
	if toRead > free {
		toRead = free
	}
	if toRead <= 0 {
		return true, rt, nil
	}

	start := b.tick()
	n, err := b.r.Read(b.data[b.avail : b.avail+toRead])
	rt.ReadTicks = b.tick() - start
	rt.ReadBytes = n
	if n > 0 {
		b.lastReadTicks = int64(rt.ReadTicks)
		b.lastReadBytes = int64(rt.ReadBytes)
	}
	b.avail += n

	if err != nil {
		if err == io.EOF {
			b.eof = true
			return false, rt, nil
		}
		return false, rt, err
	}

	more := n == toRead
	if !more {
		b.eof = true
	}
	return more, rt, nil
}

// EstimateReadBudget estimates, from the most recent memmove/read
// throughput samples, how many bytes could be read within budgetTicks
// after paying the memmove cost a subsequent Fill would incur for the
// current avail. Returns 0 if the memmove alone would exceed the budget.
// Used only by the pacing loop to exploit idle wait time (spec.md §4.5).
func (b *Buffer) EstimateReadBudget(budgetTicks int64) int {
	if budgetTicks <= 0 {
		return 0
	}
	if b.lastMemmoveBytes > 0 && b.lastMemmoveTicks > 0 {
		memmoveCost := int64(0)
		if b.avail > 0 {
			memmoveCost = b.lastMemmoveTicks * int64(b.avail) / b.lastMemmoveBytes
		}
		if memmoveCost > budgetTicks {
			return 0
		}
		budgetTicks -= memmoveCost
	}
	if b.lastReadBytes <= 0 || b.lastReadTicks <= 0 {
		return 0
	}
	return int(budgetTicks * b.lastReadBytes / b.lastReadTicks)
}
