// Package swapchain implements the fixed pool of frame buffers the decode
// pump draws from and the pacing loop returns to, decoupling decode from
// presentation (spec.md §2 C3, §3 "Swap chain", §4.3).
//
// The chain is generic over the frame-buffer type so this package has no
// dependency on internal/lcd's concrete buffer variants — the same
// separation modules/framesupplier/internal/worker_slot.go draws between
// slot bookkeeping and the *Frame payload it moves.
package swapchain

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/playerr"
	"github.com/handheld-labs/m4vplay/internal/ring"
)

// Chain owns N buffers of type F and an available-indices ring. F is
// typically a pointer type so buffer identity survives a scan by equality
// (spec.md §4.3: "release... scans the buffer array for pointer equality").
type Chain[F comparable] struct {
	buffers   []F
	available *ring.Buffer[int]
}

// New builds a chain over the given buffers. The available-indices ring
// starts full, containing {0, ..., len(buffers)-1} in order, matching the
// "available indices ring is initialised containing {0,1,...,N-1}"
// invariant of spec.md §4.3.
func New[F comparable](buffers []F) *Chain[F] {
	indices := make([]int, len(buffers))
	for i := range indices {
		indices[i] = i
	}
	return &Chain[F]{
		buffers:   buffers,
		available: ring.NewFull(indices),
	}
}

// N returns the fixed pool size.
func (c *Chain[F]) N() int { return len(c.buffers) }

// Available returns the count of buffers not currently held by a consumer
// or producer — the left-hand term of the swap-chain conservation
// invariant in spec.md §8.
func (c *Chain[F]) Available() int { return c.available.Len() }

// Acquire removes one buffer from the available pool and returns it. ok
// is false if the pool is empty (every buffer is in flight or being
// presented).
func (c *Chain[F]) Acquire() (buf F, ok bool) {
	idx, ok := c.available.Pop()
	if !ok {
		var zero F
		return zero, false
	}
	return c.buffers[idx], true
}

// Release returns buf to the available pool by scanning for pointer
// equality (acceptable because N <= 2, per spec.md §4.3). Returns
// ErrPresentation if buf is not a member of this chain, or if the
// available ring is already full for that slot (a double release).
func (c *Chain[F]) Release(buf F) error {
	for idx, candidate := range c.buffers {
		if candidate != buf {
			continue
		}
		if !c.available.Push(idx) {
			return fmt.Errorf("%w: double release of swap chain slot %d", playerr.ErrPresentation, idx)
		}
		return nil
	}
	return fmt.Errorf("%w: release of buffer not owned by this swap chain", playerr.ErrPresentation)
}
