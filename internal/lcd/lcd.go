// Package lcd implements the four presentation paths of spec.md §4.9:
// magic framebuffer, blit API, pre-rotated video, and rotated blit,
// selected once at construction and never re-chosen per frame (spec.md
// §9 "Polymorphism over frame-buffer kind": a tagged variant, not
// per-frame virtual dispatch).
//
// Grounded on QubicOS-Spark's target_rgb565.go/host_framebuffer.go
// (tagged surface variants behind one interface) and
// IntuitionAmiga-IntuitionEngine's video_screen_buffer.go (buffer-holder
// struct shape), without either repo's GPU backend.
package lcd

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/playerr"
)

// PixelMode is the LCD mode register's low 3 bits (spec.md §6 "LCD
// interface (external)").
type PixelMode int

const (
	ModeRGB888 PixelMode = 5
	ModeRGB565 PixelMode = 6
)

// Path is one of the four mutually exclusive presentation paths.
type Path int

const (
	PathMagic Path = iota
	PathBlitAPI
	PathPreRotated
	PathRotatedBlit
)

// Variant is the frame-buffer tagged-union discriminant of spec.md §9.
type Variant int

const (
	VariantMagic Variant = iota
	VariantOwned16
	VariantOwned24
)

// Config selects a presentation path and pixel variant. Field names
// mirror the PlayOptions flags of spec.md §6.
type Config struct {
	Width, Height    int
	Use24BitRGB      bool
	MagicFramebuffer bool
	LCDBlitAPI       bool
	PreRotatedVideo  bool
}

// Path reports the presentation path this config selects. Magic takes
// priority, then blit API, then pre-rotated; anything left over is
// rotated blit (the stream is landscape and none of the direct paths
// apply), per spec.md §9's "allocate the rotation buffer iff !magic &&
// !blit_api" resolution of the conflicting source behavior.
func (c Config) Path() Path {
	switch {
	case c.MagicFramebuffer:
		return PathMagic
	case c.LCDBlitAPI:
		return PathBlitAPI
	case c.PreRotatedVideo:
		return PathPreRotated
	default:
		return PathRotatedBlit
	}
}

// Variant reports the frame-buffer pixel variant this config selects.
func (c Config) Variant() Variant {
	switch {
	case c.MagicFramebuffer:
		return VariantMagic
	case c.Use24BitRGB:
		return VariantOwned24
	default:
		return VariantOwned16
	}
}

// Mode reports the LCD mode register value this config requires.
func (c Config) Mode() PixelMode {
	if c.Use24BitRGB {
		return ModeRGB888
	}
	return ModeRGB565
}

// RequiredChainSize is the swap chain's N for this config (spec.md
// §4.9: "pre-rotated video: swap chain N must be ≥ 2"; every other path
// needs only 1 for magic, or is otherwise unconstrained — we use 2 for
// non-magic paths as well so presentation and decode never contend for
// the same buffer).
func (c Config) RequiredChainSize() int {
	if c.Path() == PathMagic {
		return 1
	}
	return 2
}

// Validate rejects the invalid combinations spec.md §4.9 names:
// magic+24-bit, magic+blit-API, 24-bit+blit-API, pre-rotated with magic
// or blit-API.
func (c Config) Validate() error {
	switch {
	case c.MagicFramebuffer && c.Use24BitRGB:
		return fmt.Errorf("%w: magic framebuffer is incompatible with 24-bit RGB", playerr.ErrConfig)
	case c.MagicFramebuffer && c.LCDBlitAPI:
		return fmt.Errorf("%w: magic framebuffer is incompatible with the blit API", playerr.ErrConfig)
	case c.Use24BitRGB && c.LCDBlitAPI:
		return fmt.Errorf("%w: 24-bit RGB is incompatible with the blit API", playerr.ErrConfig)
	case c.PreRotatedVideo && c.MagicFramebuffer:
		return fmt.Errorf("%w: pre-rotated video is incompatible with the magic framebuffer", playerr.ErrConfig)
	case c.PreRotatedVideo && c.LCDBlitAPI:
		return fmt.Errorf("%w: pre-rotated video is incompatible with the blit API", playerr.ErrConfig)
	default:
		return nil
	}
}

// FrameBuffer is one pixel region the presenter draws into or scans out
// of, tagged with the variant that determines how Present handles it.
type FrameBuffer struct {
	Variant Variant
	Data    []byte
	Width   int
	Height  int
	Stride  int
}

// Device is the MMIO register contract spec.md §6 describes: a mode
// register, a power-enable bit, a scan-out base-address pointer, and an
// optional platform blit primitive. Every write is expected to enforce
// its own settle delay (spec.md §9 "MMIO side effects"), the same
// contract internal/timer.Device uses for its register writes.
type Device interface {
	WriteMode(mode PixelMode) error
	WriteBaseAddress(addr uintptr) error
	PowerOff() error
	PowerOn() error
	Blit(data []byte, csp PixelMode) error
}

// Surface owns a Device and the path/variant selected by Config, and
// implements the power-cycle sequencing and per-path presentation logic
// of spec.md §4.9.
type Surface struct {
	dev    Device
	cfg    Config
	rotBuf []byte

	prevMode PixelMode
	prevAddr uintptr
}

// New validates cfg and returns a Surface bound to dev. The rotation
// path allocates its own scratch buffer up front (spec.md §9: "allocate
// the rotation buffer iff !magic && !blit_api").
func New(dev Device, cfg Config) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Surface{dev: dev, cfg: cfg}
	if cfg.Path() == PathRotatedBlit {
		bpp := 2
		if cfg.Variant() == VariantOwned24 {
			bpp = 4
		}
		s.rotBuf = make([]byte, cfg.Width*cfg.Height*bpp)
	}
	return s, nil
}

// Init sets up the LCD before the first frame: for 24-bit scanout it
// writes power off, then the mode, then power on; 16-bit paths get only
// the mode write. Init writes no base address. Present writes the base
// address for each frame, so under 24-bit scanout the address change
// comes after power-on, not between the mode write and power-on.
func (s *Surface) Init(prevMode PixelMode, prevAddr uintptr) error {
	s.prevMode = prevMode
	s.prevAddr = prevAddr

	if s.cfg.Variant() == VariantOwned24 {
		if err := s.dev.PowerOff(); err != nil {
			return fmt.Errorf("%w: lcd power-off failed: %v", playerr.ErrPresentation, err)
		}
	}
	if err := s.dev.WriteMode(s.cfg.Mode()); err != nil {
		return fmt.Errorf("%w: lcd mode write failed: %v", playerr.ErrPresentation, err)
	}
	if s.cfg.Variant() == VariantOwned24 {
		if err := s.dev.PowerOn(); err != nil {
			return fmt.Errorf("%w: lcd power-on failed: %v", playerr.ErrPresentation, err)
		}
	}
	return nil
}

// Close restores the mode and base address recorded at Init, per
// spec.md §8's cleanup invariant.
func (s *Surface) Close() error {
	if err := s.dev.WriteMode(s.prevMode); err != nil {
		return fmt.Errorf("%w: lcd mode restore failed: %v", playerr.ErrPresentation, err)
	}
	if err := s.dev.WriteBaseAddress(s.prevAddr); err != nil {
		return fmt.Errorf("%w: lcd address restore failed: %v", playerr.ErrPresentation, err)
	}
	return nil
}

// Present displays buf using the path this Surface was configured for.
func (s *Surface) Present(buf *FrameBuffer) error {
	switch s.cfg.Path() {
	case PathMagic:
		// The decoder already wrote pixels directly into the scanout
		// region; nothing further is required.
		return nil

	case PathBlitAPI:
		if err := s.dev.Blit(buf.Data, s.cfg.Mode()); err != nil {
			return fmt.Errorf("%w: blit failed: %v", playerr.ErrPresentation, err)
		}
		return nil

	case PathPreRotated:
		addr := addressOf(buf.Data)
		if err := s.dev.WriteBaseAddress(addr); err != nil {
			return fmt.Errorf("%w: base address write failed: %v", playerr.ErrPresentation, err)
		}
		return nil

	case PathRotatedBlit:
		if err := s.rotate(buf); err != nil {
			return err
		}
		addr := addressOf(s.rotBuf)
		if err := s.dev.WriteBaseAddress(addr); err != nil {
			return fmt.Errorf("%w: base address write failed: %v", playerr.ErrPresentation, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown presentation path", playerr.ErrPresentation)
	}
}

func (s *Surface) rotate(buf *FrameBuffer) error {
	w, h := s.cfg.Width, s.cfg.Height
	if s.cfg.Variant() == VariantOwned24 {
		src := bytesToUint32(buf.Data)
		dst := bytesToUint32(s.rotBuf)
		if len(src) < w*h || len(dst) < w*h {
			return fmt.Errorf("%w: rotation buffer too small for %dx%d", playerr.ErrGeometryMismatch, w, h)
		}
		rotate(dst, src, w, h)
		return nil
	}
	src := bytesToUint16(buf.Data)
	dst := bytesToUint16(s.rotBuf)
	if len(src) < w*h || len(dst) < w*h {
		return fmt.Errorf("%w: rotation buffer too small for %dx%d", playerr.ErrGeometryMismatch, w, h)
	}
	rotate(dst, src, w, h)
	return nil
}
