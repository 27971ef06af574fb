package cartridge

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// ROMBuilder assembles small iNES images for tests.
type ROMBuilder struct {
	header      Header
	program     []uint8
	data        map[int]uint8
	chr         []uint8
	resetVector uint16
	nmiVector   uint16
	irqVector   uint16
}

// NewROMBuilder returns a builder for a 16KB NROM image with one CHR bank,
// horizontal mirroring and all vectors pointing at 0xC000.
func NewROMBuilder() *ROMBuilder {
	return &ROMBuilder{
		header:      Header{PRGUnits: 1, CHRUnits: 1},
		data:        make(map[int]uint8),
		resetVector: 0xC000,
		nmiVector:   0xC000,
		irqVector:   0xC000,
	}
}

func (b *ROMBuilder) WithPRGUnits(units uint8) *ROMBuilder {
	b.header.PRGUnits = units
	return b
}

func (b *ROMBuilder) WithCHRUnits(units uint8) *ROMBuilder {
	b.header.CHRUnits = units
	return b
}

func (b *ROMBuilder) WithMapper(id uint8) *ROMBuilder {
	b.header.MapperID = id
	return b
}

func (b *ROMBuilder) WithMirroring(id uint8) *ROMBuilder {
	b.header.MirroringID = id
	return b
}

func (b *ROMBuilder) WithTrainer() *ROMBuilder {
	b.header.Trainer = true
	return b
}

// WithProgram places code at the start of the last 16KB PRG bank, which
// is mapped at 0xC000 (and at 0x8000 for 16KB images).
func (b *ROMBuilder) WithProgram(code ...uint8) *ROMBuilder {
	b.program = code
	return b
}

// WithPRGByte sets a byte at an absolute offset inside PRG ROM.
func (b *ROMBuilder) WithPRGByte(offset int, value uint8) *ROMBuilder {
	b.data[offset] = value
	return b
}

func (b *ROMBuilder) WithCHR(data []uint8) *ROMBuilder {
	b.chr = data
	return b
}

func (b *ROMBuilder) WithResetVector(address uint16) *ROMBuilder {
	b.resetVector = address
	return b
}

func (b *ROMBuilder) WithNMIVector(address uint16) *ROMBuilder {
	b.nmiVector = address
	return b
}

func (b *ROMBuilder) WithIRQVector(address uint16) *ROMBuilder {
	b.irqVector = address
	return b
}

// Build renders the image.
func (b *ROMBuilder) Build() []byte {
	var buf bytes.Buffer
	buf.Write(b.header.Bytes())
	if b.header.Trainer {
		buf.Write(make([]uint8, TrainerSize))
	}

	prg := make([]uint8, b.header.PRGSize())
	lastBank := len(prg) - PRGUnit
	copy(prg[lastBank:], b.program)
	for offset, value := range b.data {
		prg[offset] = value
	}
	vectors := len(prg) - 6
	putWord(prg[vectors:], b.nmiVector)
	putWord(prg[vectors+2:], b.resetVector)
	putWord(prg[vectors+4:], b.irqVector)
	buf.Write(prg)

	chr := make([]uint8, b.header.CHRSize())
	copy(chr, b.chr)
	buf.Write(chr)

	return buf.Bytes()
}

// BuildCartridge renders and loads the image.
func (b *ROMBuilder) BuildCartridge(logger *zap.Logger) (*Cartridge, error) {
	cart, err := LoadFromBytes(b.Build(), logger)
	if err != nil {
		return nil, fmt.Errorf("loading built ROM: %w", err)
	}
	return cart, nil
}

func putWord(dst []uint8, value uint16) {
	dst[0] = uint8(value)
	dst[1] = uint8(value >> 8)
}
