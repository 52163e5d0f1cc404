// Package volparser implements a bespoke MPEG-4 Part-2 Visual Object
// Layer header parser (spec.md §4.6), extracting the timing fields the
// external decoder does not expose: vop_time_increment_resolution,
// fixed_vop_time_increment, and (optionally) coded width/height.
//
// There is no third-party MPEG-4 bitstream parser in the retrieved
// example pack — video libraries present (go-gst, mediacommon, pion/rtp)
// operate above the elementary-stream level (containers, RTP payloads),
// not inside a raw VOL header — so this is hand-written per spec.md §4.6,
// justified in DESIGN.md.
package volparser

// Info is the VOL-header extract the engine needs for pacing.
type Info struct {
	OK      bool
	R       uint16 // vop_time_increment_resolution
	Fixed   bool
	Inc     uint16
	IncBits int
	Width   int
	Height  int
}

// FindStartCode scans data for a VOL start code: the byte sequence
// 00 00 01 2x with x in [0, 0xF]. Returns the offset of the byte
// immediately following the four start-code bytes (where the bitstream
// payload begins) and true, or (0, false) if no VOL start code is
// present.
func FindStartCode(data []byte) (payloadOffset int, found bool) {
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0x00 && data[i+1] == 0x00 && data[i+2] == 0x01 &&
			data[i+3]&0xF0 == 0x20 {
			return i + 4, true
		}
	}
	return 0, false
}

// incBitsFor returns ceil(log2(R)) with a floor of 1, matching spec.md
// §4.6 step 6: "inc_bits = max(1, ceil(log2 R)) with R <= 1 => 1".
func incBitsFor(r uint16) int {
	if r <= 1 {
		return 1
	}
	bits := 0
	v := uint32(r - 1)
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}

// Parse runs the VOL-header algorithm of spec.md §4.6 over data, which
// must begin immediately after a VOL start code (use FindStartCode to
// locate one in a larger buffer, or call ParseFromStream below).
func Parse(data []byte) Info {
	r := newBitReader(data)

	r.skipBits(1) // random_accessible_vol
	r.skipBits(8) // video_object_type_indication

	verid := uint32(1)
	if isObjectLayerID, ok := r.readBit(); ok && isObjectLayerID {
		if v, ok := r.readBits(4); ok {
			verid = v
		}
		r.skipBits(3) // priority
	}
	// verid defaults to 1 when is_object_layer_identifier is unset; the
	// default is not consumed from the bitstream, so nothing to read here.

	if aspect, ok := r.readBits(4); ok && aspect == 15 {
		r.skipBits(16) // custom par
	}

	if volControl, ok := r.readBit(); ok && volControl {
		r.skipBits(2) // chroma_format
		r.skipBits(1) // low_delay
		if vbv, ok := r.readBit(); ok && vbv {
			// first_half_bit_rate, marker, latter_half_bit_rate, marker,
			// first_half_vbv_buffer_size, marker, latter_half_vbv_buffer_size,
			// marker, first_half_vbv_occupancy, marker, latter_half_vbv_occupancy,
			// marker
			r.skipBits(15)
			r.marker()
			r.skipBits(15)
			r.marker()
			r.skipBits(15)
			r.marker()
			r.skipBits(3)
			r.marker()
			r.skipBits(11)
			r.marker()
			r.skipBits(15)
			r.marker()
		}
	}

	shapeV, shapeOK := r.readBits(2)
	shape := int(shapeV)

	if shapeOK && shape == 3 && verid != 1 {
		// video_object_layer_shape_extension (spec.md §4.6 step 5): only
		// present when verid != 1. A well-formed stream with shape==3 and
		// the default verid==1 never sets this bit.
		r.skipBits(4)
	}

	r.marker()
	rVal, rOK := r.readBits(16)

	var info Info
	if rOK {
		info.R = uint16(rVal)
		info.IncBits = incBitsFor(info.R)
	}

	r.marker()
	if fixed, ok := r.readBit(); ok {
		info.Fixed = fixed
		if fixed {
			if inc, ok := r.readBits(uint(info.IncBits)); ok {
				info.Inc = uint16(inc)
			}
		}
	}

	if shapeOK && shape == 0 {
		r.marker()
		if w, ok := r.readBits(13); ok {
			info.Width = int(w)
		}
		r.marker()
		if h, ok := r.readBits(13); ok {
			info.Height = int(h)
		}
		r.marker()
	}

	info.OK = r.ok() && info.R != 0
	return info
}

// ParseFromStream locates the first VOL start code in data and parses
// it, for callers holding a raw elementary-stream window rather than an
// already-isolated VOL payload.
func ParseFromStream(data []byte) Info {
	offset, found := FindStartCode(data)
	if !found {
		return Info{OK: false}
	}
	return Parse(data[offset:])
}
