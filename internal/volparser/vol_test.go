package volparser

import "testing"

// testBitWriter packs MSB-first bits into bytes, mirroring the field
// order bitReader consumes them in, so tests can build exact VOL
// payloads instead of relying on fixture files.
type testBitWriter struct {
	bytes []byte
	cur   byte
	nbits uint
}

func (w *testBitWriter) writeBits(v uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = (w.cur << 1) | bit
		w.nbits++
		if w.nbits == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

func (w *testBitWriter) finish() []byte {
	if w.nbits > 0 {
		w.cur <<= (8 - w.nbits)
		w.bytes = append(w.bytes, w.cur)
	}
	return w.bytes
}

// buildVOLPayload constructs a minimal rectangular-shape VOL payload
// (shape=0) with the given R/fixed/inc, following the exact field order
// Parse consumes per spec.md §4.6.
func buildVOLPayload(r uint16, fixed bool, inc uint16, incBits int, width, height int) []byte {
	w := &testBitWriter{}
	w.writeBits(0, 1) // random_accessible_vol
	w.writeBits(0, 8) // video_object_type_indication
	w.writeBits(0, 1) // is_object_layer_identifier = 0
	w.writeBits(1, 4) // aspect_ratio_info != 15
	w.writeBits(0, 1) // vol_control_parameters = 0
	w.writeBits(0, 2) // shape = rectangular
	w.writeBits(1, 1) // marker
	w.writeBits(uint32(r), 16)
	w.writeBits(1, 1) // marker
	if fixed {
		w.writeBits(1, 1)
		w.writeBits(uint32(inc), uint(incBits))
	} else {
		w.writeBits(0, 1)
	}
	w.writeBits(1, 1) // marker before width
	w.writeBits(uint32(width), 13)
	w.writeBits(1, 1) // marker
	w.writeBits(uint32(height), 13)
	w.writeBits(1, 1) // marker
	return w.finish()
}

// buildVOLPayloadWithVBV is buildVOLPayload's rectangular-shape layout
// with vol_control_parameters=1 and vbv_parameters=1 spliced in ahead of
// the shape field, so the fixed-width VBV fields (spec.md §4.6,
// first/latter-half bit rate, buffer size, and occupancy, each
// marker-separated) are actually exercised.
func buildVOLPayloadWithVBV(r uint16, fixed bool, inc uint16, incBits int, width, height int) []byte {
	w := &testBitWriter{}
	w.writeBits(0, 1) // random_accessible_vol
	w.writeBits(0, 8) // video_object_type_indication
	w.writeBits(0, 1) // is_object_layer_identifier = 0
	w.writeBits(1, 4) // aspect_ratio_info != 15
	w.writeBits(1, 1) // vol_control_parameters = 1
	w.writeBits(0, 2) // chroma_format
	w.writeBits(0, 1) // low_delay
	w.writeBits(1, 1) // vbv_parameters = 1
	w.writeBits(0, 15)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 15)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 15)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 3)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 11)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 15)
	w.writeBits(1, 1) // marker
	w.writeBits(0, 2) // shape = rectangular
	w.writeBits(1, 1) // marker
	w.writeBits(uint32(r), 16)
	w.writeBits(1, 1) // marker
	if fixed {
		w.writeBits(1, 1)
		w.writeBits(uint32(inc), uint(incBits))
	} else {
		w.writeBits(0, 1)
	}
	w.writeBits(1, 1) // marker before width
	w.writeBits(uint32(width), 13)
	w.writeBits(1, 1) // marker
	w.writeBits(uint32(height), 13)
	w.writeBits(1, 1) // marker
	return w.finish()
}

func TestParseWithVBVParametersStaysAligned(t *testing.T) {
	payload := buildVOLPayloadWithVBV(25, true, 1, 5, 320, 240)
	info := Parse(payload)
	if !info.OK {
		t.Fatalf("expected ok=true, got %+v", info)
	}
	if info.R != 25 || !info.Fixed || info.Inc != 1 {
		t.Fatalf("info = %+v, want R=25 fixed=true inc=1", info)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Fatalf("geometry = %dx%d, want 320x240", info.Width, info.Height)
	}
}

// buildVOLPayloadShape3 builds a grayscale-shape (shape=3) VOL payload,
// which carries no coded width/height. When setVerid is true,
// is_object_layer_identifier=1 and veridValue is written explicitly
// (along with a zeroed priority field); otherwise
// is_object_layer_identifier=0 and verid defaults to 1. The
// video_object_layer_shape_extension field is only written when verid
// != 1, matching the grammar spec.md §4.6 step 5 describes.
func buildVOLPayloadShape3(setVerid bool, veridValue uint32, r uint16, fixed bool, inc uint16, incBits int) []byte {
	w := &testBitWriter{}
	w.writeBits(0, 1) // random_accessible_vol
	w.writeBits(0, 8) // video_object_type_indication
	if setVerid {
		w.writeBits(1, 1) // is_object_layer_identifier = 1
		w.writeBits(veridValue, 4)
		w.writeBits(0, 3) // priority
	} else {
		w.writeBits(0, 1) // is_object_layer_identifier = 0 (verid defaults to 1)
	}
	w.writeBits(1, 4) // aspect_ratio_info != 15
	w.writeBits(0, 1) // vol_control_parameters = 0
	w.writeBits(3, 2) // shape = 3 (grayscale)
	if setVerid && veridValue != 1 {
		w.writeBits(0, 4) // video_object_layer_shape_extension
	}
	w.writeBits(1, 1) // marker
	w.writeBits(uint32(r), 16)
	w.writeBits(1, 1) // marker
	if fixed {
		w.writeBits(1, 1)
		w.writeBits(uint32(inc), uint(incBits))
	} else {
		w.writeBits(0, 1)
	}
	return w.finish()
}

func TestParseShape3WithDefaultVeridSkipsNoExtensionBits(t *testing.T) {
	payload := buildVOLPayloadShape3(false, 0, 25, true, 1, 5)
	info := Parse(payload)
	if !info.OK {
		t.Fatalf("expected ok=true, got %+v", info)
	}
	if info.R != 25 || !info.Fixed || info.Inc != 1 {
		t.Fatalf("info = %+v, want R=25 fixed=true inc=1", info)
	}

	// An explicit verid=1 must parse identically: no extension bits were
	// written in either case.
	explicit := buildVOLPayloadShape3(true, 1, 25, true, 1, 5)
	infoExplicit := Parse(explicit)
	if !infoExplicit.OK || infoExplicit.R != 25 || !infoExplicit.Fixed || infoExplicit.Inc != 1 {
		t.Fatalf("explicit verid=1 info = %+v, want the same as the default-verid case", infoExplicit)
	}
}

func TestParseShape3WithNonDefaultVeridConsumesExtensionBits(t *testing.T) {
	payload := buildVOLPayloadShape3(true, 2, 25, true, 1, 5)
	info := Parse(payload)
	if !info.OK {
		t.Fatalf("expected ok=true, got %+v", info)
	}
	if info.R != 25 || !info.Fixed || info.Inc != 1 {
		t.Fatalf("info = %+v, want R=25 fixed=true inc=1", info)
	}
}

func TestParsePositive(t *testing.T) {
	payload := buildVOLPayload(25, true, 1, 5, 320, 240)
	info := Parse(payload)
	if !info.OK {
		t.Fatalf("expected ok=true, got %+v", info)
	}
	if info.R != 25 || !info.Fixed || info.Inc != 1 || info.IncBits != 5 {
		t.Fatalf("info = %+v, want R=25 fixed=true inc=1 inc_bits=5", info)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Fatalf("geometry = %dx%d, want 320x240", info.Width, info.Height)
	}
}

func TestParseZeroRFails(t *testing.T) {
	// All-zero 4-byte payload (spec.md scenario 4): its 32 bits end before
	// the 16-bit R field does (R ends at bit 34), and R would be 0 anyway;
	// either way ok must be false.
	payload := []byte{0x00, 0x00, 0x00, 0x00}
	info := Parse(payload)
	if info.OK {
		t.Fatalf("expected ok=false for all-zero payload, got %+v", info)
	}
}

func TestParseTruncatedFailsAtEveryBoundary(t *testing.T) {
	full := buildVOLPayload(30, true, 1, 5, 320, 240)
	for n := 0; n < len(full); n++ {
		truncated := full[:n]
		info := Parse(truncated)
		if info.OK {
			t.Fatalf("truncation at byte %d unexpectedly parsed ok: %+v", n, info)
		}
	}
}

func TestParseVariableRateNoIncrement(t *testing.T) {
	payload := buildVOLPayload(30, false, 0, 5, 176, 144)
	info := Parse(payload)
	if !info.OK || info.Fixed {
		t.Fatalf("expected ok=true fixed=false, got %+v", info)
	}
	if info.Inc != 0 {
		t.Fatalf("inc should be unset when fixed=false, got %d", info.Inc)
	}
}

func TestIncBitsFor(t *testing.T) {
	cases := []struct {
		r    uint16
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{25, 5},
		{30, 5},
		{32, 5},
		{33, 6},
	}
	for _, c := range cases {
		if got := incBitsFor(c.r); got != c.want {
			t.Fatalf("incBitsFor(%d) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestFindStartCode(t *testing.T) {
	payload := buildVOLPayload(25, true, 1, 5, 320, 240)
	stream := append([]byte{0xFF, 0xFF, 0x00, 0x00, 0x01, 0x25}, payload...)

	offset, found := FindStartCode(stream)
	if !found {
		t.Fatal("expected to find start code")
	}
	if offset != 6 {
		t.Fatalf("offset = %d, want 6", offset)
	}

	info := Parse(stream[offset:])
	if !info.OK || info.R != 25 {
		t.Fatalf("parse after FindStartCode = %+v", info)
	}
}

func TestFindStartCodeAbsent(t *testing.T) {
	if _, found := FindStartCode([]byte{1, 2, 3, 4, 5}); found {
		t.Fatal("expected no start code to be found")
	}
}
