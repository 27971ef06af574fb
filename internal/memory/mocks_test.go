package memory

import "nescore/internal/cartridge"

// MockPPU records register traffic.
type MockPPU struct {
	reads  []uint16
	writes map[uint16]uint8
	value  uint8
}

func NewMockPPU() *MockPPU {
	return &MockPPU{writes: make(map[uint16]uint8)}
}

func (p *MockPPU) ReadRegister(address uint16) uint8 {
	p.reads = append(p.reads, address)
	return p.value
}

func (p *MockPPU) WriteRegister(address uint16, value uint8) {
	p.writes[address] = value
}

// MockCartridge is a flat 64KB PRG space and 8KB CHR space.
type MockCartridge struct {
	prg       [0x10000]uint8
	chr       [0x2000]uint8
	mirroring cartridge.Mirroring
	clocks    int
}

func (c *MockCartridge) ReadPRG(address uint16) uint8         { return c.prg[address] }
func (c *MockCartridge) WritePRG(address uint16, value uint8) { c.prg[address] = value }
func (c *MockCartridge) ReadCHR(address uint16) uint8         { return c.chr[address] }
func (c *MockCartridge) WriteCHR(address uint16, value uint8) { c.chr[address] = value }
func (c *MockCartridge) ClockIRQCounter()                     { c.clocks++ }
func (c *MockCartridge) Mirroring() cartridge.Mirroring       { return c.mirroring }

// MockPort returns a fixed value and records strobes.
type MockPort struct {
	value  uint8
	writes []uint8
}

func (p *MockPort) Read() uint8       { return p.value }
func (p *MockPort) Write(value uint8) { p.writes = append(p.writes, value) }
