// Package cancelkey implements spec.md §4.8 step 1 and §5
// "Cancellation": a single synchronous, non-blocking poll of the
// keyboard escape key at the top of every pacing-loop iteration.
//
// Unlike IntuitionAmiga-IntuitionEngine's terminal_host.go, this never
// spawns a reader goroutine — spec.md §5 mandates a strictly
// single-threaded, cooperative engine with no concurrency primitives,
// so Poll is called synchronously from the pacing loop instead of
// draining a channel fed by a background reader.
package cancelkey

import (
	"os"
	"syscall"

	"golang.org/x/term"
)

// escByte is the single-byte ASCII escape key.
const escByte = 0x1B

// Reader is the minimal non-blocking byte source cancelkey polls.
// *os.File (stdin, set non-blocking) satisfies it directly; tests
// supply a fake.
type Reader interface {
	Read(p []byte) (int, error)
}

// Poller puts stdin into raw, non-blocking mode on Start and polls one
// byte at a time on Poll, reporting whether the escape key has been
// seen.
type Poller struct {
	r       Reader
	fd      int
	raw     bool
	oldTerm *term.State
	buf     [1]byte
}

// NewPoller builds a Poller over os.Stdin; Start puts it into raw,
// non-blocking mode.
func NewPoller() *Poller {
	return &Poller{fd: int(os.Stdin.Fd())}
}

// NewFakePoller builds a Poller over an arbitrary Reader, bypassing
// real terminal state — used in tests to script a sequence of bytes.
func NewFakePoller(r Reader) *Poller {
	return &Poller{r: r}
}

// Start switches stdin into raw, non-blocking mode (spec.md §4.8's
// cancellation source has no register-level definition; on a host
// build, raw stdin is the nearest equivalent). A no-op for fake
// pollers.
func (p *Poller) Start() error {
	if p.r != nil {
		return nil
	}
	old, err := term.MakeRaw(p.fd)
	if err != nil {
		return err
	}
	p.oldTerm = old
	if err := syscall.SetNonblock(p.fd, true); err != nil {
		_ = term.Restore(p.fd, p.oldTerm)
		p.oldTerm = nil
		return err
	}
	p.raw = true
	p.r = os.NewFile(uintptr(p.fd), "stdin-raw")
	return nil
}

// Stop restores stdin to its original blocking, cooked state. A no-op
// for fake pollers.
func (p *Poller) Stop() error {
	if p.oldTerm == nil {
		return nil
	}
	if p.raw {
		_ = syscall.SetNonblock(p.fd, false)
		p.raw = false
	}
	err := term.Restore(p.fd, p.oldTerm)
	p.oldTerm = nil
	return err
}

// Poll performs one non-blocking read attempt and reports whether the
// escape key was the byte read. A read that would block (no key
// pressed) is not an error. A Poller whose Start never bound a reader
// (no terminal available) always reports no cancellation, the same as
// an idle key source.
func (p *Poller) Poll() (cancelled bool, err error) {
	if p.r == nil {
		return false, nil
	}
	n, rerr := p.r.Read(p.buf[:])
	if n > 0 && p.buf[0] == escByte {
		return true, nil
	}
	if rerr == syscall.EAGAIN || rerr == syscall.EWOULDBLOCK {
		return false, nil
	}
	if rerr != nil {
		return false, rerr
	}
	return false, nil
}
