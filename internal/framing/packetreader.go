package framing

import (
	"corelink/internal/crc"
)

// SymbolSource is anything that can deliver the next symbol. Satisfied by
// *SymbolReader.
type SymbolSource interface {
	Next() Symbol
}

// CRCErrorFunc is called whenever a delimited frame fails its CRC check.
// The buffer passed in includes the trailing (bad) CRC bytes.
type CRCErrorFunc func(buffer []byte, residue uint16)

// PacketReader concatenates bytes between delimiters and verifies the
// trailing CRC-16 before yielding a payload.
type PacketReader struct {
	symbols    SymbolSource
	buffer     []byte
	onCRCError CRCErrorFunc
}

// NewPacketReader wraps a symbol source. onCRCError may be nil.
func NewPacketReader(symbols SymbolSource, onCRCError CRCErrorFunc) *PacketReader {
	return &PacketReader{symbols: symbols, onCRCError: onCRCError}
}

// Next blocks until a CRC-valid packet is assembled, discarding bad or
// spurious frames along the way.
func (p *PacketReader) Next() []byte {
	for {
		if payload, ok := p.step(); ok {
			return payload
		}
	}
}

// step consumes exactly one symbol, returning (payload, true) only when
// that symbol closes out a CRC-valid frame. Split out from Next so tests
// can drive it one symbol at a time.
func (p *PacketReader) step() ([]byte, bool) {
	sym := p.symbols.Next()

	switch sym.Kind {
	case SymbolByte:
		p.buffer = append(p.buffer, sym.Byte)
		return nil, false

	case SymbolDelimiter:
		buf := p.buffer
		p.buffer = nil

		if len(buf) < 2 {
			// Empty or spurious delimiter: silently discarded.
			return nil, false
		}

		residue := crc.Residue(buf)
		if residue != 0 {
			if p.onCRCError != nil {
				p.onCRCError(buf, residue)
			}
			return nil, false
		}
		return buf[:len(buf)-2], true
	}

	return nil, false
}
