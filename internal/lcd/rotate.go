package lcd

import "unsafe"

// pixel constrains rotate to the two pixel widths spec.md §4.9 names:
// 16-bit (RGB565) and 32-bit (RGB888 stored 32-bit).
type pixel interface {
	~uint16 | ~uint32
}

// rotate performs the 90° rotate-while-copy of spec.md §4.9: for each
// source position (x, y) in a w×h buffer, the destination index is
// x*h + (h-1-y) — looping over destination columns and traversing the
// flipped source column with stride h, as the spec describes it.
func rotate[P pixel](dst, src []P, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst[x*h+(h-1-y)] = src[y*w+x]
		}
	}
}

// bytesToUint16 reinterprets a byte slice as a uint16 slice without
// copying, for RGB565 rotation. The caller guarantees b's length is a
// multiple of 2 and that alignment is irrelevant on this target (a
// plain Go byte slice backing store has no stricter alignment
// requirement than its element type here).
func bytesToUint16(b []byte) []uint16 {
	if len(b) < 2 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), len(b)/2)
}

// bytesToUint32 reinterprets a byte slice as a uint32 slice without
// copying, for RGB888-stored-32-bit rotation.
func bytesToUint32(b []byte) []uint32 {
	if len(b) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// addressOf returns the address of a byte slice's backing array, for
// writing into the LCD base-address register (spec.md §4.9
// "pre-rotated video... swapping the LCD base-address register").
func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
