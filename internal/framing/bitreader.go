package framing

import (
	"time"

	"corelink/internal/correlator"
)

// PHYReader is the receive-side PHY contract: block for one sample
// duration and report the inferred level. Satisfied by *phy.Sampler.
type PHYReader interface {
	Read(sampleDuration time.Duration) bool
}

// Bank is the correlator bank contract BitReader needs: despread one PHY
// sample into soft data/clock estimates, and expose the per-channel
// correlation vector for diagnostics. Satisfied by *correlator.Bank.
type Bank interface {
	Feed(sample bool) correlator.BankResult
	CorrelationVector() []float64
}

// BitReader recovers the data bit clock from the correlator bank's soft
// clock signal and latches the soft data value on its rising edge. The
// latch is the only state: whether the most recent crossing we observed
// was low-to-high (armed, waiting to return) or high-to-low (clears the
// latch so the next rising edge can fire again).
type BitReader struct {
	phy            PHYReader
	bank           Bank
	sampleDuration time.Duration

	clockLatched bool

	// Diagnose, if set, is called with the bank's correlation vector after
	// every PHY sample is folded in, win or lose. Receive-mode diagnostics
	// hang off this hook rather than being wired into the decode loop
	// itself, so nothing about bit recovery depends on whether anyone is
	// watching.
	Diagnose func(correlations []float64)
}

// NewBitReader wires a PHY sampler and a correlator bank together.
func NewBitReader(phy PHYReader, bank Bank, sampleDuration time.Duration) *BitReader {
	return &BitReader{phy: phy, bank: bank, sampleDuration: sampleDuration}
}

// Next blocks until the next bit is recovered. The bank's lock heuristic
// (correlator.Bank.IsLocked) is deliberately not consulted here: it is
// documented as unreliable and the
// spec's decode path never gates on it, relying instead on the framing and
// CRC layers above to reject garbage produced while unsynchronized.
func (r *BitReader) Next() bool {
	for {
		sample := r.phy.Read(r.sampleDuration)
		res := r.bank.Feed(sample)

		if r.Diagnose != nil {
			r.Diagnose(r.bank.CorrelationVector())
		}

		if !r.clockLatched && res.ClockSoft > 0 {
			r.clockLatched = true
			return res.DataSoft > 0
		}
		if r.clockLatched && res.ClockSoft < 0 {
			r.clockLatched = false
		}
	}
}
