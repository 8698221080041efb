// Package params holds the compile-time constants that must be identical on
// both ends of the link. Nothing here may vary between the tx and rx
// binaries; changing any of it breaks the channel.
package params

import "time"

const (
	// ChipPeriod is the duration of one chip on the PHY. 16ms is the nominal
	// value; anything below about 1ms stops being reliably observable over
	// CPU contention on a loaded host.
	ChipPeriod = 16 * time.Millisecond

	// OversamplingFactorRX is the number of PHY samples the receiver takes
	// per chip. The transmitter drives one PHY level per chip, i.e. an
	// implicit oversampling factor of 1.
	OversamplingFactorRX = 3

	// MaxConcurrency caps the number of worker goroutines fanned out per
	// PHY interval on either side. Set to 1 to disable multi-core loading
	// and run the inline single-goroutine path.
	MaxConcurrency = 999

	// CRCInitial and CRCPoly parameterize the CRC-16-CCITT used for packet
	// integrity (see internal/crc).
	CRCInitial = uint16(0xFFFF)
	CRCPoly    = uint16(0x1021)
)

// SampleDuration is the receiver's per-sample PHY read interval, Tc/O.
const SampleDuration = ChipPeriod / OversamplingFactorRX

// CDMACode is the shared pseudorandom spread code, identical on both sides.
// It is the GPS C/A Gold code for SV1, generated once at init time from the
// standard G1/G2 LFSR recurrence rather than hand-transcribed as a literal.
var CDMACode []bool

// CDMACodeLength is len(CDMACode), the L in spec terms.
var CDMACodeLength int

// caSV1G2Tap1 and caSV1G2Tap2 are the two G2 register stages XORed to form
// SV1's delayed G2 output, per the GPS ICD's per-SV Gold code phase
// assignment (SV1 uses G2 taps 2,6).
const caSV1G2Tap1, caSV1G2Tap2 = 2, 6

func init() {
	CDMACode = generateGoldCodeSV1()
	CDMACodeLength = len(CDMACode)
}

// generateGoldCodeSV1 produces the 1023-chip GPS C/A code for space vehicle
// 1 by XORing the G1 sequence with a tap-selected combination of the G2
// sequence, the standard Gold-code construction used by every GPS receiver.
func generateGoldCodeSV1() []bool {
	const length = 1023

	g1 := make([]int, 10)
	for i := range g1 {
		g1[i] = 1
	}
	g2 := make([]int, 10)
	for i := range g2 {
		g2[i] = 1
	}

	code := make([]bool, length)
	for i := 0; i < length; i++ {
		g1Out := g1[9]
		g2Out := g2[caSV1G2Tap1-1] ^ g2[caSV1G2Tap2-1]

		code[i] = (g1Out ^ g2Out) == 1

		// G1: x^10 + x^3 + 1
		g1Fb := g1[9] ^ g1[2]
		copy(g1[1:], g1[:9])
		g1[0] = g1Fb

		// G2: x^10 + x^9 + x^8 + x^6 + x^3 + x^2 + 1
		g2Fb := g2[9] ^ g2[8] ^ g2[7] ^ g2[5] ^ g2[2] ^ g2[1]
		copy(g2[1:], g2[:9])
		g2[0] = g2Fb
	}
	return code
}
