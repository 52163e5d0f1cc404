// Package inflight implements the in-flight frame queue of spec.md §2 C3
// and §3: decoded frames waiting for their presentation deadline,
// FIFO-ordered, capacity N matching the swap chain.
package inflight

import "github.com/handheld-labs/m4vplay/internal/ring"

// Record is one queued, decoded-but-not-yet-presented frame.
type Record[F any] struct {
	TimingTicks uint64
	Frame       F
}

// Queue is a fixed-capacity FIFO of Record, built over internal/ring.
type Queue[F any] struct {
	r *ring.Buffer[Record[F]]
}

// New builds a queue of capacity n (the swap chain's N).
func New[F any](n int) *Queue[F] {
	return &Queue[F]{r: ring.New[Record[F]](n)}
}

// Push enqueues a record. Returns false if the queue is already at
// capacity N — the decode pump must never let this happen (it stops
// filling once the queue is full), so a false return here is a logic
// error in the caller, not a recoverable condition.
func (q *Queue[F]) Push(rec Record[F]) bool { return q.r.Push(rec) }

// Pop dequeues the oldest record. ok is false if the queue is empty.
func (q *Queue[F]) Pop() (Record[F], bool) { return q.r.Pop() }

// Len returns the current occupancy.
func (q *Queue[F]) Len() int { return q.r.Len() }

// Full reports whether the queue has reached capacity N.
func (q *Queue[F]) Full() bool { return q.r.Full() }

// Empty reports whether Pop would fail.
func (q *Queue[F]) Empty() bool { return q.r.Empty() }
