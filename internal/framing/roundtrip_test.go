package framing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"corelink/internal/correlator"
)

// recordingPHY captures the level argument of every Drive call and ignores
// duration entirely — this test cares about the chip *sequence* the
// transmit pipeline produces, not real wall-clock timing.
type recordingPHY struct {
	levels []bool
}

func (r *recordingPHY) Drive(level bool, _ time.Duration) {
	r.levels = append(r.levels, level)
}

// playbackPHY replays a pre-recorded sample sequence, one bool per Read
// call — the zero-channel-noise receive side of the loopback.
type playbackPHY struct {
	samples []bool
	i       int
}

func (p *playbackPHY) Read(time.Duration) bool {
	v := p.samples[p.i]
	p.i++
	return v
}

// oversample expands each TX chip level into `factor` RX samples of the
// same level, modelling a noise-free channel where the receiver samples
// faster than the transmitter drives.
func oversample(levels []bool, factor int) []bool {
	out := make([]bool, 0, len(levels)*factor)
	for _, l := range levels {
		for i := 0; i < factor; i++ {
			out = append(out, l)
		}
	}
	return out
}

// testCode is a short, shared spread code used only to keep this test's
// correlator bank (N = len(code)*oversampling channels) cheap; production
// wiring uses the full params.CDMACode instead.
func testCode() []bool {
	return []bool{
		true, false, false, true, true, true, false, false, true, false,
		true, true, false, true, false, false, false, true, true, false,
		true, false, true, true, true, false, false, false, true, false, true,
	}
}

// decodeOnePacket drives a PacketReader built from a fresh correlator bank
// fed by samples, returning the payload and any CRC errors observed.
func decodeOnePacket(t *testing.T, samples []bool, oversampling int) ([]byte, []uint16) {
	t.Helper()

	bank := correlator.NewBank(testCode(), oversampling)
	phyR := &playbackPHY{samples: samples}
	bits := NewBitReader(phyR, bank, time.Nanosecond)
	symbols := NewSymbolReader(bits)

	var crcErrors []uint16
	packets := NewPacketReader(symbols, func(_ []byte, residue uint16) {
		crcErrors = append(crcErrors, residue)
	})

	return packets.Next(), crcErrors
}

func emitPacket(payload []byte) []bool {
	phyW := &recordingPHY{}
	chips := NewChipEmitter(phyW, testCode(), time.Nanosecond)
	bytes := NewByteEmitter(chips, nil)
	packets := NewPacketEmitter(bytes)

	packets.EmitPacket(payload)
	return phyW.levels
}

func TestRoundTrip_LosslessChannelRecoversPayload(t *testing.T) {
	const oversampling = 3
	payloads := [][]byte{
		{0x48, 0x69}, // "Hi"
		{},
		{0x00},
		{0xFF},
		{0x01, 0x02, 0x03, 0x04, 0x05},
	}

	for _, payload := range payloads {
		levels := emitPacket(payload)
		samples := oversample(levels, oversampling)
		// Pad with a generous run of the idle (low) level so the symbol
		// reader's delimiter scan has somewhere to land even though this
		// test drives exactly one packet.
		samples = append(samples, oversample(make([]bool, 40), oversampling)...)

		got, errs := decodeOnePacket(t, samples, oversampling)
		assert.Empty(t, errs, "payload %v", payload)
		assert.Equal(t, payload, got)
	}
}

func TestRoundTrip_CorruptedCRCIsRejected(t *testing.T) {
	const oversampling = 3
	levels := emitPacket([]byte{0x10, 0x20})

	// Invert every chip of one data bit (bit 4 of the first payload byte,
	// after the 20-bit delimiter and the start bit). A single flipped chip
	// would be absorbed by despreading; a fully inverted chip sequence
	// decodes as the opposite bit, turning 0x10 into 0x00 without touching
	// the framing.
	chipsPerBit := len(testCode())
	first := (20 + 1 + 3) * chipsPerBit
	for i := first; i < first+chipsPerBit; i++ {
		levels[i] = !levels[i]
	}
	// A clean packet follows so Next has a valid frame to return once the
	// corrupted one has been discarded.
	levels = append(levels, emitPacket([]byte{0x30})...)

	samples := oversample(levels, oversampling)
	samples = append(samples, oversample(make([]bool, 40), oversampling)...)

	bank := correlator.NewBank(testCode(), oversampling)
	phyR := &playbackPHY{samples: samples}
	bits := NewBitReader(phyR, bank, time.Nanosecond)
	symbols := NewSymbolReader(bits)

	var sawError bool
	packets := NewPacketReader(symbols, func(_ []byte, _ uint16) { sawError = true })

	// The corrupted frame must not be accepted as the original payload: it
	// fails its CRC (observed via the callback) and Next moves on to the
	// clean packet that follows.
	got := packets.Next()
	assert.True(t, sawError || string(got) != string([]byte{0x10, 0x20}))
}
