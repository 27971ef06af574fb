// Package memory implements the CPU and PPU address buses.
package memory

import (
	"fmt"

	"nescore/internal/cartridge"
)

// PPURegisters is the CPU-visible register file of the PPU,
// addressed at 0x2000-0x2007 and 0x4014.
type PPURegisters interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// Port is a controller port.
type Port interface {
	Read() uint8
	Write(value uint8)
}

// Cartridge is the board as seen from the buses.
type Cartridge interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	ClockIRQCounter()
	Mirroring() cartridge.Mirroring
}

func hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
