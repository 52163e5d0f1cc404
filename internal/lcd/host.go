package lcd

// HostDevice is an in-memory Device for host builds and tests: it
// records every register write instead of touching real MMIO, mirroring
// QubicOS-Spark's host_framebuffer.go standing in for target hardware.
type HostDevice struct {
	Mode      PixelMode
	Address   uintptr
	Powered   bool
	BlitCalls int
	LastBlit  []byte
}

// NewHostDevice returns a HostDevice powered on in RGB565 mode, the
// engine's documented startup state (spec.md §4.4 "Engine usage").
func NewHostDevice() *HostDevice {
	return &HostDevice{Mode: ModeRGB565, Powered: true}
}

func (d *HostDevice) WriteMode(mode PixelMode) error      { d.Mode = mode; return nil }
func (d *HostDevice) WriteBaseAddress(addr uintptr) error { d.Address = addr; return nil }
func (d *HostDevice) PowerOff() error                     { d.Powered = false; return nil }
func (d *HostDevice) PowerOn() error                      { d.Powered = true; return nil }

func (d *HostDevice) Blit(data []byte, csp PixelMode) error {
	d.BlitCalls++
	d.LastBlit = data
	return nil
}
