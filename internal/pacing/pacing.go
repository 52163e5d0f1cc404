// Package pacing implements the single-threaded presentation loop of
// spec.md §4.8: cancel-key poll, in-flight pop, deadline computation
// against the hardware timer, opportunistic refill, sleep-or-spin,
// blit, frame-buffer release, and pump refill — in that order, every
// iteration, on one goroutine.
//
// Grounded on JetSetIlly-Gopher2600's limiter.go (throttle against a
// ticking clock; lateness is observed, not corrected) and
// GoldenFealla-go-video-player's synchronizer.go (stream-time to
// wall-clock mapping).
package pacing

import (
	"context"
	"fmt"
	"time"

	"github.com/handheld-labs/m4vplay/internal/cancelkey"
	"github.com/handheld-labs/m4vplay/internal/decoder"
	"github.com/handheld-labs/m4vplay/internal/inflight"
	"github.com/handheld-labs/m4vplay/internal/inputbuffer"
	"github.com/handheld-labs/m4vplay/internal/lcd"
	"github.com/handheld-labs/m4vplay/internal/playerr"
	"github.com/handheld-labs/m4vplay/internal/stats"
	"github.com/handheld-labs/m4vplay/internal/swapchain"
	"github.com/handheld-labs/m4vplay/internal/timer"
)

// marginTicks is the opportunistic-refill margin of spec.md §4.8 step
// 5: T_HZ / 1000, roughly one millisecond.
const marginTicks = int64(timer.T_HZ / 1000)

// availFloorDivisor gates opportunistic refill to when avail < B/4.
const availFloorDivisor = 4

// Config carries the timing parameters the VOL parser extracts plus
// the behavior switches of spec.md §6 that affect pacing specifically.
type Config struct {
	R              uint16
	FixedRate      bool
	FixedIncrement uint16

	Benchmark           bool
	BlitDuringBenchmark bool
}

// Sleeper abstracts the platform sleep call so tests can run without
// wall-clock delay.
type Sleeper func(d time.Duration)

// ToFrameBuffer adapts a swap-chain frame-buffer reference of type F to
// the lcd.FrameBuffer the presenter needs.
type ToFrameBuffer[F comparable] func(F) *lcd.FrameBuffer

// Loop drives spec.md §4.8's presentation loop over frame-buffer type
// F.
type Loop[F comparable] struct {
	Chain   *swapchain.Chain[F]
	Queue   *inflight.Queue[F]
	Pump    *decoder.Pump[F]
	Input   *inputbuffer.Buffer
	Surface *lcd.Surface
	Timer   timer.Device
	Cancel  *cancelkey.Poller
	Stats   *stats.Collector
	ToFB    ToFrameBuffer[F]
	Sleep   Sleeper
	Cfg     Config

	// Ctx, if set, is polled alongside the escape key every iteration
	// (a plain field read, not a select on a background goroutine — the
	// engine stays single-threaded). A nil Ctx is treated as
	// context.Background(), i.e. never cancelled this way.
	Ctx context.Context

	frameCounter uint64
	t0           uint32
	lastBlit     uint32
}

// Run executes the loop until user cancel, clean end of stream, or a
// fatal error, per spec.md §4.8's terminal states. A nil return means
// the stream played to completion.
func (l *Loop[F]) Run() error {
	if l.Sleep == nil {
		l.Sleep = time.Sleep
	}
	l.t0 = l.Timer.Current()

	for {
		if l.Ctx != nil && l.Ctx.Err() != nil {
			return fmt.Errorf("%w: %v", playerr.ErrUserCancel, l.Ctx.Err())
		}

		cancelled, err := l.Cancel.Poll()
		if err != nil {
			return fmt.Errorf("%w: %v", playerr.ErrUserCancel, err)
		}
		if cancelled {
			return playerr.ErrUserCancel
		}

		if l.Queue.Empty() {
			if l.Pump.EOFReached {
				return nil
			}
			return fmt.Errorf("%w: in-flight queue drained before end of stream", playerr.ErrBitstream)
		}

		frameStart := l.Timer.Current()

		rec, ok := l.Queue.Pop()
		if !ok {
			return fmt.Errorf("%w: in-flight queue drained before end of stream", playerr.ErrBitstream)
		}

		timingTicks := rec.TimingTicks
		if l.Cfg.FixedRate {
			timingTicks = l.frameCounter * uint64(l.Cfg.FixedIncrement)
		}

		ticksToWait := l.computeWait(timingTicks)
		ticksToWait = l.opportunisticRefill(ticksToWait)
		l.Stats.RecordPacingWait(int32(ticksToWait))

		if ticksToWait > 0 && !l.Cfg.Benchmark {
			ms := ticksToWait * 1000 / timer.T_HZ
			if ms >= 1 {
				l.Sleep(time.Duration(ms) * time.Millisecond)
			}
		}

		if err := l.blit(rec.Frame); err != nil {
			return err
		}

		// Release before refill, not after: with a one-buffer swap chain
		// (the magic-framebuffer path) the buffer just presented is the
		// only buffer the decode pump could possibly acquire next. Filling
		// first would starve that path after exactly one frame, since the
		// in-flight queue would stay empty for the whole of the following
		// iteration's queue-empty check.
		if err := l.Chain.Release(rec.Frame); err != nil {
			return err
		}

		if err := l.Pump.FillUntilFull(); err != nil {
			return err
		}

		l.Stats.RecordFrameTotal(timer.Elapsed(frameStart, l.Timer.Current()))
		l.frameCounter++
	}
}

// LastBlit reports the tick cost of the most recent presentation blit,
// for diagnostics (spec.md §7 "last blit time"). Zero before the first
// frame or while benchmarking without blit.
func (l *Loop[F]) LastBlit() uint32 { return l.lastBlit }

// computeWait implements spec.md §4.8 step 4: target elapsed ticks is
// round(timing_ticks * T_HZ / R); the target counter value is t0 minus
// that elapsed amount, biased forward by the last blit's cost so the
// wait ends just before the blit is expected to finish.
func (l *Loop[F]) computeWait(timingTicks uint64) int64 {
	targetElapsed := int64((timingTicks*uint64(timer.T_HZ) + uint64(l.Cfg.R)/2) / uint64(l.Cfg.R))
	targetCounter := l.t0 - uint32(targetElapsed) + l.lastBlit
	return int64(int32(timer.Elapsed(l.Timer.Current(), targetCounter)))
}

// opportunisticRefill implements spec.md §4.8 step 5.
func (l *Loop[F]) opportunisticRefill(ticksToWait int64) int64 {
	if ticksToWait <= marginTicks {
		return ticksToWait
	}
	if l.Input.EOF() || l.Input.Avail() >= inputbuffer.Capacity/availFloorDivisor {
		return ticksToWait
	}
	budget := l.Input.EstimateReadBudget(ticksToWait - marginTicks)
	if budget <= 0 {
		return ticksToWait
	}
	start := l.Timer.Current()
	_, refill, err := l.Input.Fill(budget)
	if err != nil {
		return ticksToWait
	}
	l.Stats.RecordRefill(stats.RefillSample(refill))
	elapsed := timer.Elapsed(start, l.Timer.Current())
	return ticksToWait - int64(elapsed)
}

func (l *Loop[F]) blit(frame F) error {
	if l.Cfg.Benchmark && !l.Cfg.BlitDuringBenchmark {
		l.lastBlit = 0
		return nil
	}
	start := l.Timer.Current()
	err := l.Surface.Present(l.ToFB(frame))
	l.lastBlit = timer.Elapsed(start, l.Timer.Current())
	l.Stats.RecordBlit(l.lastBlit)
	if err != nil {
		return err
	}
	return nil
}
