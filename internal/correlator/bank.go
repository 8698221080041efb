package correlator

import "gonum.org/v1/gonum/stat"

// Bank runs N = len(code)*oversampling independent Channels, one per phase
// offset, and combines their outputs into soft data/clock estimates. The
// fourth-power weighting on each channel's correlation is what lets the
// locked channel dominate the sum without ever having to pick it out
// explicitly.
type Bank struct {
	channels []*Channel
}

// NewBank builds the oversampled reference sequence from code (repeating
// each chip oversampling times) and instantiates one Channel per phase
// offset into that sequence.
func NewBank(code []bool, oversampling int) *Bank {
	seq := make([]bool, 0, len(code)*oversampling)
	for _, chip := range code {
		for j := 0; j < oversampling; j++ {
			seq = append(seq, chip)
		}
	}

	channels := make([]*Channel, len(seq))
	for i := range channels {
		channels[i] = NewChannel(seq, i)
	}
	return &Bank{channels: channels}
}

// BankResult is the combined soft output of every channel in the bank for
// one input sample. Sign indicates the logical value, magnitude the
// aggregate confidence.
type BankResult struct {
	DataSoft  float64
	ClockSoft float64
}

// Feed pushes one PHY sample through every channel and returns the
// weighted combination of their outputs.
func (b *Bank) Feed(sample bool) BankResult {
	var data, clock float64
	for _, ch := range b.channels {
		res := ch.Feed(sample)
		weight := res.Correlation * res.Correlation * res.Correlation * res.Correlation

		if res.Data {
			data += weight
		} else {
			data -= weight
		}
		if res.Clock {
			clock += weight
		} else {
			clock -= weight
		}
	}
	return BankResult{DataSoft: data, ClockSoft: clock}
}

// CorrelationVector returns the most recently latched correlation of every
// channel, in phase order. Diagnostic use only.
func (b *Bank) CorrelationVector() []float64 {
	out := make([]float64, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch.Correlation()
	}
	return out
}

// Len reports N, the number of channels in the bank.
func (b *Bank) Len() int { return len(b.channels) }

// IsLocked is an unreliable diagnostic heuristic only: it is never used to
// gate bit output, but is logged to help a human tell whether the receiver
// has found the transmitter's code phase.
func (b *Bank) IsLocked(k float64) bool {
	cvec := b.CorrelationVector()
	mean, stdev := stat.MeanStdDev(cvec, nil)

	max := cvec[0]
	for _, c := range cvec[1:] {
		if c > max {
			max = c
		}
	}
	return (max - mean) > k*stdev
}
