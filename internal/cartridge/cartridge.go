// Package cartridge implements ROM loading and the NROM and MMC3 cartridge boards.
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Cartridge is a loaded ROM image with its board logic.
type Cartridge struct {
	Header Header
	Mapper Mapper

	prgROM []uint8
	chrROM []uint8
}

// IRQLine receives interrupt requests from boards with IRQ hardware.
type IRQLine interface {
	TriggerIRQ()
	AcknowledgeIRQ()
}

// Mapper is the closed set of supported boards, *NROM and *MMC3.
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)

	// ClockIRQCounter is called once per filtered rising edge of PPU A12.
	ClockIRQCounter()
	// Mirroring reports the current nametable layout.
	Mirroring() Mirroring
	// ConnectIRQ attaches the CPU interrupt input.
	ConnectIRQ(line IRQLine)

	board()
}

// Load reads an iNES image from disk.
func Load(path string, logger *zap.Logger) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidRomError{Path: path, Reason: "reading file", Err: err}
	}
	cart, err := LoadFromBytes(data, logger)
	if err != nil {
		var romErr *InvalidRomError
		if errors.As(err, &romErr) {
			romErr.Path = path
		}
		return nil, err
	}
	return cart, nil
}

// LoadFromReader reads an iNES image from r.
func LoadFromReader(r io.Reader, logger *zap.Logger) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidRomError{Reason: "reading image", Err: err}
	}
	return LoadFromBytes(data, logger)
}

// LoadFromBytes parses a complete iNES image held in memory.
func LoadFromBytes(data []byte, logger *zap.Logger) (*Cartridge, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data[HeaderSize:])
	if header.Trainer {
		if _, err := r.Seek(TrainerSize, io.SeekCurrent); err != nil {
			return nil, &InvalidRomError{Reason: "skipping trainer", Err: err}
		}
	}

	prg := make([]uint8, header.PRGSize())
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, &InvalidRomError{Reason: fmt.Sprintf("PRG ROM truncated, want %d bytes", len(prg)), Err: err}
	}
	chr := make([]uint8, header.CHRSize())
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, &InvalidRomError{Reason: fmt.Sprintf("CHR ROM truncated, want %d bytes", len(chr)), Err: err}
	}

	mapper, err := NewMapper(header, prg, chr, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("cartridge loaded",
		zap.Uint8("mapper", header.MapperID),
		zap.Int("prg_rom", len(prg)),
		zap.Int("chr_rom", len(chr)),
		zap.Stringer("mirroring", MirroringFromID(header.MirroringID)),
		zap.Bool("battery", header.Battery))

	return &Cartridge{
		Header: header,
		Mapper: mapper,
		prgROM: prg,
		chrROM: chr,
	}, nil
}

// NewMapper builds the board for the header's mapper id.
func NewMapper(header Header, prg, chr []uint8, logger *zap.Logger) (Mapper, error) {
	mirroring := MirroringFromID(header.MirroringID)
	chrRAM := len(chr) == 0
	if chrRAM {
		chr = make([]uint8, CHRUnit)
	}
	prgRAM := make([]uint8, header.PRGRAMSize())

	switch header.MapperID {
	case 0:
		return newNROM(prg, prgRAM, chr, mirroring, logger.Named("nrom")), nil
	case 4:
		return newMMC3(prg, prgRAM, chr, chrRAM, mirroring, logger.Named("mmc3")), nil
	default:
		return nil, &UnsupportedMapperError{ID: header.MapperID}
	}
}

// PRG returns the PRG ROM image.
func (c *Cartridge) PRG() []uint8 { return c.prgROM }

// CHR returns the CHR ROM image, empty for CHR RAM boards.
func (c *Cartridge) CHR() []uint8 { return c.chrROM }

type noIRQ struct{}

func (noIRQ) TriggerIRQ()     {}
func (noIRQ) AcknowledgeIRQ() {}
