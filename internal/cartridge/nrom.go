package cartridge

import "go.uber.org/zap"

// NROM is mapper 0: fixed 16KB or 32KB PRG ROM, 8KB CHR and PRG RAM at 0x6000.
type NROM struct {
	prgROM    []uint8
	prgRAM    []uint8
	chr       []uint8
	mirroring Mirroring
	logger    *zap.Logger
}

func newNROM(prg, prgRAM, chr []uint8, mirroring Mirroring, logger *zap.Logger) *NROM {
	return &NROM{
		prgROM:    prg,
		prgRAM:    prgRAM,
		chr:       chr,
		mirroring: mirroring,
		logger:    logger,
	}
}

func (m *NROM) board() {}

// ReadPRG maps 0x6000-0x7FFF to PRG RAM and 0x8000-0xFFFF to PRG ROM.
// A single 16KB bank is mirrored into both halves.
func (m *NROM) ReadPRG(address uint16) uint8 {
	if address < 0x8000 {
		return m.prgRAM[int(address-0x6000)%len(m.prgRAM)]
	}
	return m.prgROM[int(address-0x8000)%len(m.prgROM)]
}

// WritePRG stores into PRG RAM, ROM writes are dropped.
func (m *NROM) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		m.prgRAM[int(address-0x6000)%len(m.prgRAM)] = value
		return
	}
	m.logger.Debug("write to PRG ROM ignored",
		zap.String("address", hex16(address)),
		zap.String("value", hex8(value)))
}

func (m *NROM) ReadCHR(address uint16) uint8 {
	return m.chr[int(address)%len(m.chr)]
}

func (m *NROM) WriteCHR(address uint16, value uint8) {
	m.chr[int(address)%len(m.chr)] = value
}

// ClockIRQCounter does nothing, NROM has no IRQ hardware.
func (m *NROM) ClockIRQCounter() {}

func (m *NROM) Mirroring() Mirroring { return m.mirroring }

func (m *NROM) ConnectIRQ(IRQLine) {}
