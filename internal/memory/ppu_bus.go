package memory

import (
	"go.uber.org/zap"

	"nescore/internal/cartridge"
)

const (
	nametableSize = 0x400
	paletteBase   = 0x3F00

	// a12LowDots is how long A12 must stay low before a rising edge
	// clocks the mapper. Nametable fetches between pattern fetches
	// drop A12 for fewer dots than this.
	a12LowDots = 16
)

// PPUBus routes PPU addresses to CHR memory, nametable RAM and palette RAM.
type PPUBus struct {
	cart       Cartridge
	nametables [2][nametableSize]uint8
	palette    [32]uint8

	dots     uint64
	a12High  bool
	a12LowAt uint64

	logger *zap.Logger
}

// NewPPUBus creates the PPU address space for a cartridge.
func NewPPUBus(cart Cartridge, logger *zap.Logger) *PPUBus {
	return &PPUBus{
		cart:   cart,
		logger: logger,
	}
}

// Clock advances the dot counter used to filter A12 edges.
func (b *PPUBus) Clock() {
	b.dots++
}

// Read reads a byte from the PPU address space.
func (b *PPUBus) Read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.watchA12(address)
		return b.cart.ReadCHR(address)
	case address < 0x3000:
		table, offset := b.nametable(address)
		return b.nametables[table][offset]
	case address >= paletteBase:
		return b.palette[paletteIndex(address)]
	default:
		b.logger.Warn("PPU read out of range", zap.String("address", hex16(address)))
		return 0
	}
}

// Write writes a byte to the PPU address space.
func (b *PPUBus) Write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.watchA12(address)
		b.cart.WriteCHR(address, value)
	case address < 0x3000:
		table, offset := b.nametable(address)
		b.nametables[table][offset] = value
	case address >= paletteBase:
		b.palette[paletteIndex(address)] = value
	default:
		b.logger.Warn("PPU write out of range", zap.String("address", hex16(address)))
	}
}

func (b *PPUBus) nametable(address uint16) (int, uint16) {
	physical := cartridge.MirrorAddress(b.cart.Mirroring(), address) - 0x2000
	return int(physical / nametableSize), physical % nametableSize
}

// paletteIndex folds the sprite backdrop entries onto the background ones.
func paletteIndex(address uint16) uint16 {
	index := (address - paletteBase) % 32
	if index >= 16 && index%4 == 0 {
		index -= 16
	}
	return index
}

// watchA12 clocks the mapper IRQ counter on a filtered rising edge of A12.
func (b *PPUBus) watchA12(address uint16) {
	high := address&0x1000 != 0
	if high && !b.a12High && b.dots-b.a12LowAt >= a12LowDots {
		b.cart.ClockIRQCounter()
	}
	if !high && b.a12High {
		b.a12LowAt = b.dots
	}
	b.a12High = high
}
