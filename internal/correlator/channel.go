// Package correlator implements the bank of phase-offset correlation
// channels that despread the PHY bitstream against the shared CDMA code,
// recovering both the data bit and the bit clock in the same pass.
package correlator

// Channel tracks one phase offset of the reference oversampled code: how
// many of the samples received during the current code period matched the
// reference at the corresponding position, versus mismatched.
type Channel struct {
	reference []bool // oversampled code, shared read-only across channels
	position  int

	matchHi, matchLo int

	correlation float64
	dataState   bool
}

// NewChannel creates a channel locked to reference with an initial phase
// offset. The reference slice is never mutated and may be shared by every
// channel in a bank.
func NewChannel(reference []bool, offset int) *Channel {
	return &Channel{reference: reference, position: offset % len(reference)}
}

// Result is the per-sample output of a single correlation channel.
type Result struct {
	Correlation float64
	Data        bool
	Clock       bool // active high; true in the second half of the period
}

// Feed processes one PHY sample. When position reaches the end of the
// reference, the just-completed period's correlation and data state are
// latched before the new period begins.
func (c *Channel) Feed(sample bool) Result {
	n := len(c.reference)

	if c.position >= n {
		c.closePeriod()
	}

	if sample == c.reference[c.position] {
		c.matchHi++
	} else {
		c.matchLo++
	}
	c.position++

	return Result{
		Correlation: c.correlation,
		Data:        c.dataState,
		Clock:       c.position > n/2,
	}
}

func (c *Channel) closePeriod() {
	top, bot := c.matchHi, c.matchLo
	if bot > top {
		top, bot = bot, top
	}
	c.correlation = float64(top-bot) / float64(c.position)
	c.dataState = c.matchHi > c.matchLo

	c.position = 0
	c.matchHi = 0
	c.matchLo = 0
}

// Correlation returns the most recently latched correlation value, for
// diagnostics only.
func (c *Channel) Correlation() float64 { return c.correlation }
