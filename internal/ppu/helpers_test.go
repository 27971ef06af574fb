package ppu

import (
	"testing"

	"go.uber.org/zap"

	"nescore/internal/cartridge"
	"nescore/internal/memory"
)

// MockCartridge is 8KB of CHR RAM with fixed mirroring.
type MockCartridge struct {
	chr       [0x2000]uint8
	mirroring cartridge.Mirroring
}

func (c *MockCartridge) ReadPRG(uint16) uint8                 { return 0 }
func (c *MockCartridge) WritePRG(uint16, uint8)               {}
func (c *MockCartridge) ReadCHR(address uint16) uint8         { return c.chr[address&0x1FFF] }
func (c *MockCartridge) WriteCHR(address uint16, value uint8) { c.chr[address&0x1FFF] = value }
func (c *MockCartridge) ClockIRQCounter()                     {}
func (c *MockCartridge) Mirroring() cartridge.Mirroring       { return c.mirroring }

// MockDisplay keeps the last colour written to each pixel.
type MockDisplay struct {
	pixels [Height][Width]uint8
	frames int
}

func (d *MockDisplay) SetPixel(x, y int, colorIndex uint8) { d.pixels[y][x] = colorIndex }
func (d *MockDisplay) RenderFrame()                        { d.frames++ }

// MockCPU is a 64KB memory with NMI and stall accounting.
type MockCPU struct {
	memory [0x10000]uint8
	nmis   int
	stalls []int
	cycles uint64
}

func (c *MockCPU) TriggerNMI()                { c.nmis++ }
func (c *MockCPU) Read(address uint16) uint8  { return c.memory[address] }
func (c *MockCPU) Stall(cycles int)           { c.stalls = append(c.stalls, cycles) }
func (c *MockCPU) Cycles() uint64             { return c.cycles }

type testPPU struct {
	*PPU
	cart    *MockCartridge
	display *MockDisplay
	cpu     *MockCPU
}

func newTestPPU(t *testing.T) *testPPU {
	t.Helper()
	cart := &MockCartridge{mirroring: cartridge.Horizontal}
	display := &MockDisplay{}
	cpu := &MockCPU{}
	p := New(memory.NewPPUBus(cart, zap.NewNop()), display, zap.NewNop())
	p.ConnectCPU(cpu, cpu)
	return &testPPU{PPU: p, cart: cart, display: display, cpu: cpu}
}

func (p *testPPU) stepUntil(scanline, dot int) {
	for p.scanline != scanline || p.dot != dot {
		p.Step()
	}
}

func (p *testPPU) setAddress(address uint16) {
	p.WriteRegister(0x2006, uint8(address>>8))
	p.WriteRegister(0x2006, uint8(address))
}
