// Package timer abstracts the handheld's memory-mapped dual-timer
// peripheral (spec.md §3 "Timer state", §4.4). The engine configures one
// timer as a free-running, wrapping, 32-bit down-counter at T_HZ and
// never stops it during playback; all pacing math reads the counter and
// computes elapsed ticks from two snapshots.
//
// Every register write calls a settle hook afterwards, and Device is an
// interface, so a real embedded build can swap in one that talks to
// physical registers (clktmr-n64's display/interrupt drivers follow the same
// "opaque register handle with a busy-wait after every write" shape)
// while tests and host builds use the software Device below.
package timer

import "time"

// T_HZ is the timer's tick rate: a 12 MHz source divided by a /256
// prescale, matching spec.md §3.
const T_HZ = 12_000_000 / 256

// Prescale selects the divider applied to the timer's source clock.
type Prescale int

const (
	Div1 Prescale = iota
	Div16
	Div256
)

// Wrap selects one-shot or free-running (wrapping) counter behavior.
type Wrap int

const (
	OneShot Wrap = iota
	Wrapping
)

// Mode selects periodic reload-on-expiry or free-running behavior.
type Mode int

const (
	Periodic Mode = iota
	FreeRunning
)

// Config mirrors the dual-timer peripheral's configuration register
// fields (spec.md §4.4).
type Config struct {
	Mode       Mode
	Wrap       Wrap
	Prescale   Prescale
	Size       int // 16 or 32
	IRQEnable  bool
	Enabled    bool
}

// State is the snapshot restore_state/record_state exchange: the live
// counter value and the reload value, saved and restored independently
// (spec.md §4.4: "writes the counter via the main-load register and then
// the reload via the background-load register").
type State struct {
	Config  Config
	Current uint32
	Reload  uint32
}

// mmioSettleTicks is the tick count passed to the settle hook after every
// register write, standing in for the register-write latency. SoftDevice's
// settle hook is a no-op, so on a host build no time is spent.
const mmioSettleTicks = 1

// Device is the hardware timer contract the engine drives. A real
// embedded build implements it over physical registers; SoftDevice below
// is the host/test implementation.
type Device interface {
	Configure(cfg Config)
	SetLoad(v uint32)
	SetBGLoad(v uint32)
	Current() uint32
	Start()
	Stop()
	ClearIRQ()
	RecordState() State
	RestoreState(s State)
}

// SoftDevice is a free-running software model of the timer: it derives
// "current" from a monotonic wall-clock read scaled to T_HZ, so pacing
// math exercised in tests behaves like the real down-counter without
// needing actual MMIO.
type SoftDevice struct {
	cfg     Config
	load    uint32
	bgload  uint32
	running bool

	// epoch and epochCounter pin down the counter value at the moment the
	// timer was (re)started, so Current() can be computed without storing
	// mutable per-tick state.
	epoch        time.Time
	epochCounter uint32

	// nowFunc is overridable for deterministic tests; defaults to
	// time.Now.
	nowFunc func() time.Time

	settle func(ticks int)
}

// NewSoftDevice returns a stopped SoftDevice.
func NewSoftDevice() *SoftDevice {
	return &SoftDevice{
		nowFunc: time.Now,
		settle:  func(int) {},
	}
}

func (d *SoftDevice) Configure(cfg Config) {
	d.cfg = cfg
	d.settle(mmioSettleTicks)
}

func (d *SoftDevice) SetLoad(v uint32) {
	d.load = v
	d.settle(mmioSettleTicks)
}

func (d *SoftDevice) SetBGLoad(v uint32) {
	d.bgload = v
	d.settle(mmioSettleTicks)
}

func (d *SoftDevice) Start() {
	d.epoch = d.nowFunc()
	d.epochCounter = d.load
	d.running = true
	d.settle(mmioSettleTicks)
}

func (d *SoftDevice) Stop() {
	if d.running {
		// Freeze the counter at its current value so a later Start
		// resumes visibly rather than jumping.
		d.load = d.Current()
		d.running = false
	}
	d.settle(mmioSettleTicks)
}

func (d *SoftDevice) ClearIRQ() { d.settle(mmioSettleTicks) }

// Current returns the down-counter value: epochCounter minus elapsed
// ticks since Start, wrapping through 2^32 (spec.md §3: "Elapsed since
// start is computed as (start - current) mod 2^32 because the counter
// decrements").
func (d *SoftDevice) Current() uint32 {
	if !d.running {
		return d.load
	}
	elapsed := d.nowFunc().Sub(d.epoch)
	ticks := uint32(elapsed.Seconds() * T_HZ)
	return d.epochCounter - ticks
}

func (d *SoftDevice) RecordState() State {
	return State{Config: d.cfg, Current: d.Current(), Reload: d.bgload}
}

// RestoreState writes the counter via the main-load path and the reload
// via the background-load path independently, matching spec.md §4.4.
func (d *SoftDevice) RestoreState(s State) {
	d.cfg = s.Config
	d.SetLoad(s.Current)
	d.SetBGLoad(s.Reload)
	d.epoch = d.nowFunc()
	d.epochCounter = s.Current
	d.running = s.Config.Enabled
}

// Elapsed computes the number of timer ticks between two observed
// counter values produced within a single wrap, honoring the
// decrementing-counter arithmetic of spec.md §3 and §8: (a - b) mod 2^32.
func Elapsed(earlier, later uint32) uint32 {
	return earlier - later
}

// EngineConfig is the configuration the engine applies to its timer:
// free-running, wrapping, /256 prescale, 32-bit, IRQ disabled — spec.md
// §4.4 "Engine usage". The load value is not part of Config; the engine
// sets it to 0xFFFFFFFF with SetLoad.
func EngineConfig() Config {
	return Config{
		Mode:      FreeRunning,
		Wrap:      Wrapping,
		Prescale:  Div256,
		Size:      32,
		IRQEnable: false,
		Enabled:   true,
	}
}
