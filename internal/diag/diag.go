// Package diag renders the correlator bank's per-channel correlation
// vector into the human-readable diagnostics spec.md asks for: summary
// statistics and an ASCII heatmap. Nothing here feeds back into decoding —
// it exists purely for the operator watching logs.
package diag

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the aggregate statistics over one correlation vector.
type Summary struct {
	Mean   float64
	Max    float64
	Stdev  float64
	Locked bool
}

// lockThreshold is the default k in is_locked = (max-mean) > k*stdev. The
// spec calls this heuristic "unreliable"; it is reported for logging only.
const lockThreshold = 5.0

// Summarize computes mean/max/stdev over a correlation vector and the
// lock heuristic, using gonum/stat for the mean/stdev rather than a
// hand-rolled accumulator.
func Summarize(correlations []float64) Summary {
	if len(correlations) == 0 {
		return Summary{}
	}

	mean, stdev := stat.MeanStdDev(correlations, nil)
	max := correlations[0]
	for _, c := range correlations[1:] {
		if c > max {
			max = c
		}
	}

	return Summary{
		Mean:   mean,
		Max:    max,
		Stdev:  stdev,
		Locked: (max - mean) > lockThreshold*stdev,
	}
}

// Heatmap renders one character per channel: a hex digit scaled from the
// channel's correlation for channels above 0.2, a space otherwise, to keep
// poorly-correlated channels from adding visual noise.
func Heatmap(correlations []float64) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(correlations))

	for _, c := range correlations {
		if c > 0.2 {
			idx := int(c * 16.0)
			if idx > 15 {
				idx = 15
			}
			if idx < 0 {
				idx = 0
			}
			b.WriteByte(hexDigits[idx])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
