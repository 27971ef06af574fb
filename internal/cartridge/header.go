package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the size of the iNES file header.
	HeaderSize = 16
	// TrainerSize is the size of the optional trainer block following the header.
	TrainerSize = 512

	// PRGUnit is the PRG ROM size unit declared by the header.
	PRGUnit = 0x4000
	// CHRUnit is the CHR ROM size unit declared by the header.
	CHRUnit = 0x2000
	// PRGRAMUnit is the PRG RAM size unit declared by the header.
	PRGRAMUnit = 0x2000
)

var magic = [4]uint8{'N', 'E', 'S', 0x1A}

// iNES header layout as stored on disk.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8 // in 8KB units
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

// Header is the decoded iNES header.
type Header struct {
	PRGUnits    uint8
	CHRUnits    uint8
	PRGRAMUnits uint8
	MapperID    uint8
	MirroringID uint8
	Trainer     bool
	Battery     bool
}

// ParseHeader decodes the first 16 bytes of an iNES image.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, &InvalidRomError{Reason: fmt.Sprintf("header is %d bytes, want %d", len(raw), HeaderSize)}
	}

	var h iNESHeader
	if err := binary.Read(bytes.NewReader(raw[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return Header{}, &InvalidRomError{Reason: "reading header", Err: err}
	}
	if h.Magic != magic {
		return Header{}, &InvalidRomError{Reason: "missing iNES magic"}
	}
	if h.PRGROMSize == 0 {
		return Header{}, &InvalidRomError{Reason: "PRG ROM size is zero"}
	}

	mapperID := h.Flags6 >> 4
	// Old dumping tools wrote a signature into bytes 7-15, only trust the
	// upper mapper nibble when the tail of the header is clean.
	if h.Padding[1] == 0 && h.Padding[2] == 0 && h.Padding[3] == 0 && h.Padding[4] == 0 {
		mapperID |= h.Flags7 & 0xF0
	}

	return Header{
		PRGUnits:    h.PRGROMSize,
		CHRUnits:    h.CHRROMSize,
		PRGRAMUnits: h.PRGRAMSize,
		MapperID:    mapperID,
		MirroringID: h.Flags6 & 0x01,
		Trainer:     h.Flags6&0x04 != 0,
		Battery:     h.Flags6&0x02 != 0,
	}, nil
}

// Bytes encodes the header back into its 16-byte iNES form.
func (h Header) Bytes() []byte {
	raw := iNESHeader{
		Magic:      magic,
		PRGROMSize: h.PRGUnits,
		CHRROMSize: h.CHRUnits,
		Flags6:     h.MapperID<<4 | h.MirroringID&0x01,
		Flags7:     h.MapperID & 0xF0,
		PRGRAMSize: h.PRGRAMUnits,
	}
	if h.Battery {
		raw.Flags6 |= 0x02
	}
	if h.Trainer {
		raw.Flags6 |= 0x04
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, raw)
	return buf.Bytes()
}

// PRGSize returns the PRG ROM size in bytes.
func (h Header) PRGSize() int { return int(h.PRGUnits) * PRGUnit }

// CHRSize returns the CHR ROM size in bytes, zero for CHR RAM boards.
func (h Header) CHRSize() int { return int(h.CHRUnits) * CHRUnit }

// PRGRAMSize returns the PRG RAM size in bytes. A declared size of zero
// means one unit, which is how the format has always been read in practice.
func (h Header) PRGRAMSize() int {
	if h.PRGRAMUnits == 0 {
		return PRGRAMUnit
	}
	return int(h.PRGRAMUnits) * PRGRAMUnit
}
