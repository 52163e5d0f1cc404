// Package stats implements the engine's profiling vectors and the
// five-number-summary diagnostics spec.md §4.10 and §7 describe, plus
// the supplemental warm-up FPS-stability report from SPEC_FULL.md,
// generalizing the mean/stddev math in
// modules/stream-capture/internal/warmup/stats.go from time.Time
// intervals to raw hardware tick counts.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// FiveNumber is a Tukey-hinge five-number summary plus the arithmetic
// mean and sample count (spec.md §4.10).
type FiveNumber struct {
	Min, Q1, Median, Q3, Max float64
	Mean                     float64
	N                        int
}

// tukeyQuartiles returns Q1, the median, and Q3, with the quartiles
// taken by the Tukey-hinge definition:
// median of the lower/upper half, excluding the overall median when n is
// odd (spec.md §4.10, GLOSSARY "Tukey hinges").
func tukeyQuartiles(sorted []float64) (q1, median, q3 float64) {
	n := len(sorted)
	median = medianOf(sorted)

	var lower, upper []float64
	if n%2 == 0 {
		lower = sorted[:n/2]
		upper = sorted[n/2:]
	} else {
		lower = sorted[:n/2]
		upper = sorted[n/2+1:]
	}
	q1 = medianOf(lower)
	q3 = medianOf(upper)
	return q1, median, q3
}

func medianOf(s []float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// SummarizeUnsigned computes a FiveNumber over unsigned 32-bit samples.
func SummarizeUnsigned(samples []uint32) FiveNumber {
	fs := make([]float64, len(samples))
	for i, v := range samples {
		fs[i] = float64(v)
	}
	return summarize(fs)
}

// SummarizeSigned computes a FiveNumber over signed 32-bit samples (the
// pacing-wait vector, which can be negative when a frame runs late).
func SummarizeSigned(samples []int32) FiveNumber {
	fs := make([]float64, len(samples))
	for i, v := range samples {
		fs[i] = float64(v)
	}
	return summarize(fs)
}

func summarize(samples []float64) FiveNumber {
	if len(samples) == 0 {
		return FiveNumber{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	q1, median, q3 := tukeyQuartiles(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return FiveNumber{
		Min:    sorted[0],
		Q1:     q1,
		Median: median,
		Q3:     q3,
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
		N:      len(sorted),
	}
}

// String renders the summary the way spec.md §4.10 asks: integer
// quartiles when the value is a whole number, else one decimal place.
func (f FiveNumber) String() string {
	fmtVal := func(v float64) string {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("n=%d min=%s q1=%s median=%s q3=%s max=%s mean=%.2f",
		f.N, fmtVal(f.Min), fmtVal(f.Q1), fmtVal(f.Median), fmtVal(f.Q3), fmtVal(f.Max), f.Mean)
}
