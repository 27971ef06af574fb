package memory

import (
	"go.uber.org/zap"
)

const (
	oamDMA     = 0x4014
	joypad1    = 0x4016
	joypad2    = 0x4017
	ramSize    = 0x800
	ppuRegBase = 0x2000
)

// CPUBus routes CPU addresses to RAM, PPU registers, controllers and the cartridge.
type CPUBus struct {
	ram [ramSize]uint8

	ppu   PPURegisters
	cart  Cartridge
	left  Port
	right Port

	warned map[uint16]bool
	logger *zap.Logger
}

// NewCPUBus wires the bus to its devices.
func NewCPUBus(ppu PPURegisters, cart Cartridge, left, right Port, logger *zap.Logger) *CPUBus {
	return &CPUBus{
		ppu:    ppu,
		cart:   cart,
		left:   left,
		right:  right,
		warned: make(map[uint16]bool),
		logger: logger,
	}
}

// Read reads a byte from the CPU address space.
func (b *CPUBus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address%ramSize]
	case address < 0x4000:
		return b.ppu.ReadRegister(ppuRegBase + address%8)
	case address == oamDMA:
		return b.ppu.ReadRegister(address)
	case address == joypad1:
		return b.left.Read()
	case address == joypad2:
		return b.right.Read()
	case address < 0x6000:
		b.unmapped("read", address)
		return 0
	default:
		return b.cart.ReadPRG(address)
	}
}

// Write writes a byte to the CPU address space. A write to 0x4016 strobes
// both controllers, like the shared OUT0 line on the console.
func (b *CPUBus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address%ramSize] = value
	case address < 0x4000:
		b.ppu.WriteRegister(ppuRegBase+address%8, value)
	case address == oamDMA:
		b.ppu.WriteRegister(address, value)
	case address == joypad1:
		b.left.Write(value)
		b.right.Write(value)
	case address == joypad2:
		b.right.Write(value)
	case address < 0x6000:
		b.unmapped("write", address)
	default:
		b.cart.WritePRG(address, value)
	}
}

// unmapped logs accesses to the APU and expansion area. Games poke these
// every frame, so only the first access per address is a warning.
func (b *CPUBus) unmapped(op string, address uint16) {
	if !b.warned[address] {
		b.warned[address] = true
		b.logger.Warn("access to unimplemented address",
			zap.String("op", op),
			zap.String("address", hex16(address)))
		return
	}
	b.logger.Debug("access to unimplemented address",
		zap.String("op", op),
		zap.String("address", hex16(address)))
}
