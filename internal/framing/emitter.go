// Package framing turns the binary PHY into a packet-oriented link: chip
// spreading and byte/packet framing on the transmit side, and bit-clock
// recovery through symbol and packet reassembly on the receive side.
package framing

import (
	"time"

	"corelink/internal/crc"
	"corelink/internal/params"
)

// PHYWriter is the transmit-side PHY contract: occupy the core for duration
// if level is true, release it otherwise. Satisfied by *phy.Driver.
type PHYWriter interface {
	Drive(level bool, duration time.Duration)
}

// Observer lets an external collaborator (the CLI, in this repo) watch
// emission progress without the emitter itself taking a logging dependency,
// matching spec.md's "diagnostic printing is an external collaborator"
// split.
type Observer interface {
	OnByte(b byte)
	OnDelimiter()
}

// NoopObserver discards every event; NewByteEmitter substitutes it when
// given a nil Observer, so callers never have to set one.
type NoopObserver struct{}

func (NoopObserver) OnByte(byte)  {}
func (NoopObserver) OnDelimiter() {}

// ChipEmitter expands one data bit into the full spread-code chip
// sequence and drives it onto the PHY chip by chip.
type ChipEmitter struct {
	phy        PHYWriter
	code       []bool
	chipPeriod time.Duration
}

// NewChipEmitter builds a ChipEmitter over the shared spread code.
// Production callers pass params.CDMACode and params.ChipPeriod.
func NewChipEmitter(phy PHYWriter, code []bool, chipPeriod time.Duration) *ChipEmitter {
	return &ChipEmitter{phy: phy, code: code, chipPeriod: chipPeriod}
}

// EmitBit drives the PHY with the code unchanged for a 1 bit, or its
// bitwise complement for a 0 bit.
func (e *ChipEmitter) EmitBit(value bool) {
	for _, codeChip := range e.code {
		bit := codeChip
		if !value {
			bit = !bit
		}
		e.phy.Drive(bit, e.chipPeriod)
	}
}

// ByteEmitter prepends a single high start bit to every byte, then emits
// the 8 data bits MSB-first.
type ByteEmitter struct {
	chips    *ChipEmitter
	observer Observer
}

// NewByteEmitter wraps a ChipEmitter; observer may be nil, in which case
// events are discarded.
func NewByteEmitter(chips *ChipEmitter, observer Observer) *ByteEmitter {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ByteEmitter{chips: chips, observer: observer}
}

// EmitByte sends the start bit followed by 8 MSB-first data bits.
func (e *ByteEmitter) EmitByte(b byte) {
	e.chips.EmitBit(true) // start bit
	for i := 7; i >= 0; i-- {
		e.chips.EmitBit((b>>uint(i))&1 == 1)
	}
	e.observer.OnByte(b)
}

// EmitDelimiter sends the frame delimiter: at least 20 consecutive zero
// bits. The spec minimum is 9; 20 gives the receiver margin to find
// correlation before data transmission starts.
func (e *ByteEmitter) EmitDelimiter() {
	const delimiterBits = 20
	for i := 0; i < delimiterBits; i++ {
		e.chips.EmitBit(false)
	}
	e.observer.OnDelimiter()
}

// PacketEmitter frames a whole payload: delimiter, payload bytes, CRC-16
// in big-endian order, delimiter.
type PacketEmitter struct {
	bytes *ByteEmitter
}

// NewPacketEmitter wraps a ByteEmitter.
func NewPacketEmitter(bytes *ByteEmitter) *PacketEmitter {
	return &PacketEmitter{bytes: bytes}
}

// EmitPacket sends one complete framed packet for payload.
func (e *PacketEmitter) EmitPacket(payload []byte) {
	e.bytes.EmitDelimiter()

	sum := params.CRCInitial
	for _, b := range payload {
		e.bytes.EmitByte(b)
		sum = crc.Update(sum, b)
	}
	e.bytes.EmitByte(byte(sum >> 8))
	e.bytes.EmitByte(byte(sum))

	e.bytes.EmitDelimiter()
}
