// Package alignedalloc provides heap allocation aligned to a power-of-two
// boundary, the way a C aligned_alloc does, for code that cares about
// cache-line placement of hot buffers (the engine's frame buffers). Go's allocator gives no alignment guarantee beyond natural
// type alignment, so this has no stdlib or ecosystem substitute on the
// pack's retrieved repos (see DESIGN.md) and is hand-rolled: reserve
// alignment-1 bytes of slack, align up inside it, hand back the aligned
// slice. No backlink to the raw allocation is stored; there is no Free.
package alignedalloc

import (
	"fmt"
	"math/bits"
	"unsafe"
)

// minAlignment is the smallest alignment this package accepts (the size
// of a pointer on 64-bit targets).
const minAlignment = 8

// Block is an aligned allocation. Data is the requested, alignment-
// satisfying slice; the raw backing array includes the alignment slack
// ahead of (and after) Data. Nothing is written into the slack: Block.raw
// keeps the allocation reachable, and the GC reclaims it once Block is
// unreachable.
type Block struct {
	raw  []byte
	Data []byte
}

// Alloc reserves size bytes aligned to alignment, which must be a power
// of two and at least minAlignment. Returns an error (never a nil Block
// with no error) on zero size, non-power-of-two alignment, or an
// alignment below minAlignment — mirroring the "returns null" contract of
// the source with a Go-idiomatic error instead of a sentinel nil.
func Alloc(alignment, size int) (*Block, error) {
	if size <= 0 {
		return nil, fmt.Errorf("alignedalloc: size must be > 0, got %d", size)
	}
	if alignment < minAlignment || bits.OnesCount(uint(alignment)) != 1 {
		return nil, fmt.Errorf("alignedalloc: alignment must be a power of two >= %d, got %d", minAlignment, alignment)
	}

	raw := make([]byte, size+alignment-1)
	base := uintptrOf(raw)
	aligned := (base + uintptr(alignment) - 1) &^ (uintptr(alignment) - 1)
	offset := int(aligned - base)

	return &Block{
		raw:  raw,
		Data: raw[offset : offset+size],
	}, nil
}

// Len returns the usable length of the block.
func (b *Block) Len() int { return len(b.Data) }

// uintptrOf returns the address of a slice's backing array. Go's garbage
// collector does not currently move heap objects, so this address stays
// valid for the lifetime of raw as long as raw itself is kept reachable
// (it is, via Block.raw) — the same non-moving assumption every cgo
// pointer-passing call makes.
func uintptrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
