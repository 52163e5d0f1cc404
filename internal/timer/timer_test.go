package timer

import (
	"testing"
	"time"
)

func TestElapsedWrapsModulo2_32(t *testing.T) {
	cases := []struct {
		earlier, later, want uint32
	}{
		{100, 40, 60},
		{10, 0xFFFFFFF0, 26}, // (10 - 0xFFFFFFF0) mod 2^32; written as a literal since Go rejects the underflowing constant expression at compile time
		{0xFFFFFFFF, 0xFFFFFFFE, 1},
	}
	for _, c := range cases {
		got := Elapsed(c.earlier, c.later)
		if got != c.want {
			t.Fatalf("Elapsed(%#x, %#x) = %#x, want %#x", c.earlier, c.later, got, c.want)
		}
	}
}

func TestSoftDeviceCountsDown(t *testing.T) {
	d := NewSoftDevice()
	now := time.Unix(0, 0)
	d.nowFunc = func() time.Time { return now }

	d.Configure(EngineConfig())
	d.SetLoad(0xFFFFFFFF)
	d.SetBGLoad(0xFFFFFFFF)
	d.Start()

	a := d.Current()
	if a != 0xFFFFFFFF {
		t.Fatalf("Current() immediately after Start = %#x, want 0xFFFFFFFF", a)
	}

	now = now.Add(time.Second)
	b := d.Current()
	want := uint32(0xFFFFFFFF - T_HZ)
	if b != want {
		t.Fatalf("Current() after 1s = %#x, want %#x", b, want)
	}

	elapsed := Elapsed(a, b)
	if elapsed != T_HZ {
		t.Fatalf("Elapsed over 1s = %d ticks, want %d", elapsed, T_HZ)
	}
}

func TestRestoreStateIsIndependent(t *testing.T) {
	d := NewSoftDevice()
	now := time.Unix(0, 0)
	d.nowFunc = func() time.Time { return now }
	d.Configure(EngineConfig())
	d.Start()

	saved := State{Config: EngineConfig(), Current: 1000, Reload: 0xFFFFFFFF}
	d.RestoreState(saved)

	if d.Current() != 1000 {
		t.Fatalf("Current() after restore = %d, want 1000", d.Current())
	}
	if d.bgload != 0xFFFFFFFF {
		t.Fatalf("bgload after restore = %#x, want 0xFFFFFFFF", d.bgload)
	}
}
