package cartridge

import "go.uber.org/zap"

const (
	prgPageSize = 0x2000
	chrPageSize = 0x0400
)

// MMC3 is mapper 4: four 8KB PRG pages, eight 1KB CHR pages and a
// scanline counter clocked by PPU A12.
type MMC3 struct {
	prgROM []uint8
	prgRAM []uint8
	chr    []uint8
	chrRAM bool

	target       uint8
	prgMode      uint8
	chrInversion uint8
	registers    [8]uint8
	prgOffsets   [4]int
	chrOffsets   [8]int

	mirroring  Mirroring
	protect    uint8
	counter    uint8
	latch      uint8
	reload     bool
	irqEnabled bool
	irq        IRQLine

	logger *zap.Logger
}

func newMMC3(prg, prgRAM, chr []uint8, chrRAM bool, mirroring Mirroring, logger *zap.Logger) *MMC3 {
	m := &MMC3{
		prgROM:    prg,
		prgRAM:    prgRAM,
		chr:       chr,
		chrRAM:    chrRAM,
		mirroring: mirroring,
		irq:       noIRQ{},
		logger:    logger,
	}
	m.updateOffsets()
	return m
}

func (m *MMC3) board() {}

func (m *MMC3) ConnectIRQ(line IRQLine) {
	if line == nil {
		line = noIRQ{}
	}
	m.irq = line
}

func (m *MMC3) ReadPRG(address uint16) uint8 {
	if address < 0x8000 {
		return m.prgRAM[int(address-0x6000)%len(m.prgRAM)]
	}
	address -= 0x8000
	page := address / prgPageSize
	return m.prgROM[m.prgOffsets[page]+int(address%prgPageSize)]
}

func (m *MMC3) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		m.prgRAM[int(address-0x6000)%len(m.prgRAM)] = value
		return
	}
	m.writeRegister(address, value)
}

func (m *MMC3) ReadCHR(address uint16) uint8 {
	page := address / chrPageSize
	return m.chr[m.chrOffsets[page]+int(address%chrPageSize)]
}

func (m *MMC3) WriteCHR(address uint16, value uint8) {
	if !m.chrRAM {
		m.logger.Debug("write to CHR ROM ignored", zap.String("address", hex16(address)))
		return
	}
	page := address / chrPageSize
	m.chr[m.chrOffsets[page]+int(address%chrPageSize)] = value
}

func (m *MMC3) Mirroring() Mirroring { return m.mirroring }

// writeRegister dispatches on the address range and its parity.
func (m *MMC3) writeRegister(address uint16, value uint8) {
	even := address&1 == 0
	switch {
	case address < 0xA000:
		if even {
			m.writeBankSelect(value)
		} else {
			m.writeBankData(value)
		}
	case address < 0xC000:
		if even {
			m.writeMirroring(value)
		} else {
			m.protect = value
			m.logger.Debug("PRG RAM protect not enforced", zap.String("value", hex8(value)))
		}
	case address < 0xE000:
		if even {
			m.latch = value
		} else {
			m.reload = true
		}
	default:
		if even {
			m.irqEnabled = false
			m.irq.AcknowledgeIRQ()
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *MMC3) writeBankSelect(value uint8) {
	m.target = value & 0x07
	m.prgMode = (value >> 6) & 1
	m.chrInversion = (value >> 7) & 1
	m.updateOffsets()
}

func (m *MMC3) writeBankData(value uint8) {
	m.registers[m.target] = value
	m.updateOffsets()
}

func (m *MMC3) writeMirroring(value uint8) {
	if value&1 == 0 {
		m.mirroring = Vertical
	} else {
		m.mirroring = Horizontal
	}
}

// ClockIRQCounter checks for zero before reloading, so an IRQ fires on
// the clock that sees the counter at zero.
func (m *MMC3) ClockIRQCounter() {
	if m.counter == 0 && m.irqEnabled {
		m.irq.TriggerIRQ()
	}
	if m.counter == 0 || m.reload {
		m.reload = false
		m.counter = m.latch
	} else {
		m.counter--
	}
}

// updateOffsets recomputes the page tables from the bank registers.
func (m *MMC3) updateOffsets() {
	prgBanks := len(m.prgROM) / prgPageSize
	last := prgBanks - 1
	secondLast := prgBanks - 2

	switch m.prgMode {
	case 0:
		m.prgOffsets[0] = m.prgOffset(int(m.registers[6]))
		m.prgOffsets[1] = m.prgOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.prgOffset(secondLast)
		m.prgOffsets[3] = m.prgOffset(last)
	case 1:
		m.prgOffsets[0] = m.prgOffset(secondLast)
		m.prgOffsets[1] = m.prgOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.prgOffset(int(m.registers[6]))
		m.prgOffsets[3] = m.prgOffset(last)
	}

	r := m.registers
	banks := [8]uint8{r[0] &^ 1, r[0] | 1, r[1] &^ 1, r[1] | 1, r[2], r[3], r[4], r[5]}
	for i, bank := range banks {
		page := i
		if m.chrInversion == 1 {
			page = i ^ 4
		}
		m.chrOffsets[page] = m.chrOffset(int(bank))
	}
}

func (m *MMC3) prgOffset(bank int) int {
	banks := len(m.prgROM) / prgPageSize
	bank %= banks
	if bank < 0 {
		bank += banks
	}
	return bank * prgPageSize
}

func (m *MMC3) chrOffset(bank int) int {
	return bank % (len(m.chr) / chrPageSize) * chrPageSize
}
