package lcd

import "fmt"

// MMIODevice models the real LCD register block: a mode register (low 3
// bits select pixel format, bit 0 the power-enable), and a scan-out
// base-address pointer (spec.md §6 "LCD interface (external)"). Every
// write is followed by a settle callback, the same discipline
// internal/timer.SoftDevice uses (spec.md §9 "MMIO side effects").
//
// A real embedded build supplies write/settle funcs that touch physical
// registers; this struct only owns the sequencing.
type MMIODevice struct {
	writeModeReg func(mode PixelMode, powered bool)
	writeAddrReg func(addr uintptr)
	blitPrimitive func(data []byte, csp PixelMode) error
	settle        func(ticks int)

	mode    PixelMode
	powered bool
}

// NewMMIODevice builds an MMIODevice over the given register-write
// funcs. blit may be nil if the platform has no blit API; New does not
// check for it, so a Surface on the blit-API path then fails at Present
// with the error Blit returns.
func NewMMIODevice(writeMode func(PixelMode, bool), writeAddr func(uintptr), blit func([]byte, PixelMode) error, settle func(int)) *MMIODevice {
	if settle == nil {
		settle = func(int) {}
	}
	return &MMIODevice{writeModeReg: writeMode, writeAddrReg: writeAddr, blitPrimitive: blit, settle: settle, mode: ModeRGB565, powered: true}
}

func (d *MMIODevice) WriteMode(mode PixelMode) error {
	d.mode = mode
	d.writeModeReg(d.mode, d.powered)
	d.settle(mmioSettleTicks)
	return nil
}

func (d *MMIODevice) WriteBaseAddress(addr uintptr) error {
	d.writeAddrReg(addr)
	d.settle(mmioSettleTicks)
	return nil
}

func (d *MMIODevice) PowerOff() error {
	d.powered = false
	d.writeModeReg(d.mode, d.powered)
	d.settle(mmioSettleTicks)
	return nil
}

func (d *MMIODevice) PowerOn() error {
	d.powered = true
	d.writeModeReg(d.mode, d.powered)
	d.settle(mmioSettleTicks)
	return nil
}

func (d *MMIODevice) Blit(data []byte, csp PixelMode) error {
	if d.blitPrimitive == nil {
		return fmt.Errorf("lcd: no platform blit primitive wired")
	}
	return d.blitPrimitive(data, csp)
}

// mmioSettleTicks matches internal/timer's register-write settle delay;
// both peripherals share the same documented latency (spec.md §4.4,
// §9).
const mmioSettleTicks = 1
