package stats

import (
	"math"

	"github.com/handheld-labs/m4vplay/internal/timer"
)

// warmupStabilityThreshold mirrors fpsStabilityThreshold in
// modules/stream-capture/internal/warmup/stats.go: a stream is
// considered stable if its instantaneous-FPS standard deviation is under
// 15% of the mean.
const warmupStabilityThreshold = 0.15

// WarmupReport is SPEC_FULL.md's supplemental measured-FPS report, built
// from the first few frames' presentation ticks before steady-state
// playback. On a fixed-rate stream this is informational only.
type WarmupReport struct {
	FramesObserved int
	FPSMean        float64
	FPSStdDev      float64
	IsStable       bool
}

// CalculateWarmup computes a WarmupReport from consecutive inter-frame
// tick deltas (the same data RecordFrameTotal collects), generalizing
// CalculateFPSStats from time.Time intervals to raw tick counts.
func CalculateWarmup(interFrameTicks []uint32) WarmupReport {
	n := len(interFrameTicks)
	if n == 0 {
		return WarmupReport{}
	}

	fpsSamples := make([]float64, 0, n)
	for _, ticks := range interFrameTicks {
		if ticks == 0 {
			continue
		}
		fpsSamples = append(fpsSamples, float64(timer.T_HZ)/float64(ticks))
	}
	if len(fpsSamples) == 0 {
		return WarmupReport{FramesObserved: n}
	}

	var sum float64
	for _, v := range fpsSamples {
		sum += v
	}
	mean := sum / float64(len(fpsSamples))

	var variance float64
	for _, v := range fpsSamples {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(fpsSamples))
	stddev := math.Sqrt(variance)

	return WarmupReport{
		FramesObserved: n,
		FPSMean:        mean,
		FPSStdDev:      stddev,
		IsStable:       mean > 0 && stddev/mean < warmupStabilityThreshold,
	}
}
