package framing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corelink/internal/crc"
)

type symbolSlice struct {
	symbols []Symbol
	i       int
}

func (s *symbolSlice) Next() Symbol {
	v := s.symbols[s.i]
	s.i++
	return v
}

func byteSymbols(data ...byte) []Symbol {
	out := make([]Symbol, len(data))
	for i, b := range data {
		out[i] = Symbol{Kind: SymbolByte, Byte: b}
	}
	return out
}

func delimiter() Symbol { return Symbol{Kind: SymbolDelimiter} }

func TestPacketReader_AcceptsValidCRC(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	sum := crc.Compute(payload)
	syms := byteSymbols(payload...)
	syms = append(syms, byteSymbols(byte(sum>>8), byte(sum))...)
	syms = append(syms, delimiter())

	r := NewPacketReader(&symbolSlice{symbols: syms}, nil)
	got := r.Next()
	assert.Equal(t, payload, got)
}

func TestPacketReader_EmptyPayloadAccepted(t *testing.T) {
	sum := crc.Compute(nil)
	syms := byteSymbols(byte(sum>>8), byte(sum))
	syms = append(syms, delimiter())

	r := NewPacketReader(&symbolSlice{symbols: syms}, nil)
	got := r.Next()
	assert.Equal(t, []byte{}, got)
}

func TestPacketReader_CorruptedCRCReportedAndDiscarded(t *testing.T) {
	payload := []byte{0xAA}
	sum := crc.Compute(payload)
	syms := byteSymbols(payload...)
	syms = append(syms, byteSymbols(byte(sum>>8), byte(sum)^0xFF)...) // corrupt low byte
	syms = append(syms, delimiter())
	// Second, valid packet follows so Next() has something to return.
	payload2 := []byte{0x42}
	sum2 := crc.Compute(payload2)
	syms = append(syms, byteSymbols(payload2...)...)
	syms = append(syms, byteSymbols(byte(sum2>>8), byte(sum2))...)
	syms = append(syms, delimiter())

	var gotErr bool
	var gotResidue uint16
	r := NewPacketReader(&symbolSlice{symbols: syms}, func(buf []byte, residue uint16) {
		gotErr = true
		gotResidue = residue
	})

	got := r.Next()
	assert.True(t, gotErr)
	assert.NotEqual(t, uint16(0), gotResidue)
	assert.Equal(t, payload2, got)
}

func TestPacketReader_SpuriousEmptyDelimiterDiscardedSilently(t *testing.T) {
	payload := []byte{0x7E}
	sum := crc.Compute(payload)
	syms := []Symbol{delimiter(), delimiter()} // two back-to-back empty delimiters
	syms = append(syms, byteSymbols(payload...)...)
	syms = append(syms, byteSymbols(byte(sum>>8), byte(sum))...)
	syms = append(syms, delimiter())

	var gotErr bool
	r := NewPacketReader(&symbolSlice{symbols: syms}, func([]byte, uint16) { gotErr = true })

	got := r.Next()
	assert.False(t, gotErr)
	assert.Equal(t, payload, got)
}

func TestPacketReader_TwoPacketsShareOneDelimiter(t *testing.T) {
	p1, p2 := []byte{0x01}, []byte{0x02}
	c1, c2 := crc.Compute(p1), crc.Compute(p2)

	var syms []Symbol
	syms = append(syms, delimiter())
	syms = append(syms, byteSymbols(p1...)...)
	syms = append(syms, byteSymbols(byte(c1>>8), byte(c1))...)
	syms = append(syms, delimiter()) // shared between the two packets
	syms = append(syms, byteSymbols(p2...)...)
	syms = append(syms, byteSymbols(byte(c2>>8), byte(c2))...)
	syms = append(syms, delimiter())

	r := NewPacketReader(&symbolSlice{symbols: syms}, nil)
	got1 := r.Next()
	got2 := r.Next()

	assert.Equal(t, p1, got1)
	assert.Equal(t, p2, got2)
}
