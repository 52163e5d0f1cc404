// Package ring implements a fixed-capacity single-producer/single-consumer
// FIFO used throughout the engine (swap-chain available indices, the
// in-flight frame queue). It is plain, lock-free, single-threaded: the
// engine never touches it from more than one goroutine, so there is no
// atomic bookkeeping to get wrong (compare
// drgolem-go-portaudio's SPSCRingBuffer, which needs atomics only because
// producer and consumer are different goroutines).
package ring

// Buffer is a fixed-capacity ring of T. Zero value is not usable; build
// one with New or NewFull.
type Buffer[T any] struct {
	buf      []T
	pushHead int
	readTail int
	count    int
}

// New returns an empty ring of capacity c.
func New[T any](c int) *Buffer[T] {
	return &Buffer[T]{buf: make([]T, c)}
}

// NewFull returns a ring of capacity c that is already full of the given
// values, read out starting at index 0. Used to pre-fill a pool of swap
// chain indices (spec.md §4.3).
func NewFull[T any](values []T) *Buffer[T] {
	b := &Buffer[T]{buf: make([]T, len(values))}
	copy(b.buf, values)
	b.count = len(values)
	return b
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.buf) }

// Len returns the current occupancy, 0 <= Len() <= Cap().
func (b *Buffer[T]) Len() int { return b.count }

// Full reports whether the ring has no room for another Push.
func (b *Buffer[T]) Full() bool { return b.count == len(b.buf) }

// Empty reports whether Pop would fail.
func (b *Buffer[T]) Empty() bool { return b.count == 0 }

// Push appends v. Returns false without mutating the ring if it is full.
func (b *Buffer[T]) Push(v T) bool {
	if b.Full() {
		return false
	}
	b.buf[b.pushHead] = v
	b.pushHead = (b.pushHead + 1) % len(b.buf)
	b.count++
	return true
}

// Pop removes and returns the oldest value. ok is false if the ring was
// empty, in which case the zero value of T is returned.
func (b *Buffer[T]) Pop() (v T, ok bool) {
	if b.Empty() {
		return v, false
	}
	v = b.buf[b.readTail]
	b.readTail = (b.readTail + 1) % len(b.buf)
	b.count--
	return v, true
}

// Peek returns the oldest value without removing it.
func (b *Buffer[T]) Peek() (v T, ok bool) {
	if b.Empty() {
		return v, false
	}
	return b.buf[b.readTail], true
}
