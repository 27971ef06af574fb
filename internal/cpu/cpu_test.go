package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMemory is a flat 64KB bus with access counters.
type MockMemory struct {
	data       [0x10000]uint8
	readCount  map[uint16]int
	writeCount map[uint16]int
}

func NewMockMemory() *MockMemory {
	return &MockMemory{
		readCount:  make(map[uint16]int),
		writeCount: make(map[uint16]int),
	}
}

func (m *MockMemory) Read(address uint16) uint8 {
	m.readCount[address]++
	return m.data[address]
}

func (m *MockMemory) Write(address uint16, value uint8) {
	m.writeCount[address]++
	m.data[address] = value
}

// SetBytes stores values starting at address without counting the accesses.
func (m *MockMemory) SetBytes(address uint16, values ...uint8) {
	for i, value := range values {
		m.data[address+uint16(i)] = value
	}
}

func (m *MockMemory) GetReadCount(address uint16) int  { return m.readCount[address] }
func (m *MockMemory) GetWriteCount(address uint16) int { return m.writeCount[address] }

// CPUTestHelper bundles a CPU with its mock bus.
type CPUTestHelper struct {
	CPU    *CPU
	Memory *MockMemory
}

func NewCPUTestHelper() *CPUTestHelper {
	memory := NewMockMemory()
	cpu := New(zap.NewNop())
	cpu.Connect(memory)
	return &CPUTestHelper{CPU: cpu, Memory: memory}
}

// SetupResetVector points the reset vector at address and resets.
func (h *CPUTestHelper) SetupResetVector(address uint16) {
	h.Memory.SetBytes(resetVector, uint8(address), uint8(address>>8))
	h.CPU.Reset()
}

func (h *CPUTestHelper) LoadProgram(address uint16, program ...uint8) {
	h.Memory.SetBytes(address, program...)
}

// MustStep executes one instruction and fails the test on error.
func (h *CPUTestHelper) MustStep(t *testing.T) int {
	t.Helper()
	cycles, err := h.CPU.Step()
	require.NoError(t, err)
	return cycles
}

// DrainStall steps through pending stall cycles and returns how many there were.
func (h *CPUTestHelper) DrainStall(t *testing.T) int {
	t.Helper()
	n := 0
	for h.CPU.stall > 0 {
		h.MustStep(t)
		n++
	}
	return n
}

func (h *CPUTestHelper) AssertRegisters(t *testing.T, a, x, y, sp uint8, pc uint16) {
	t.Helper()
	assert.Equal(t, a, h.CPU.A, "A")
	assert.Equal(t, x, h.CPU.X, "X")
	assert.Equal(t, y, h.CPU.Y, "Y")
	assert.Equal(t, sp, h.CPU.SP, "SP")
	assert.Equal(t, pc, h.CPU.PC, "PC")
}

func TestCPUReset(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.Memory.SetBytes(resetVector, 0x00, 0x80)

	helper.CPU.A = 0x55
	helper.CPU.SP = 0x00
	helper.CPU.PC = 0x1234
	helper.CPU.I = false
	helper.CPU.Stall(10)

	helper.CPU.Reset()

	assert.Equal(t, uint16(0x8000), helper.CPU.PC)
	assert.Equal(t, uint8(0xFD), helper.CPU.SP)
	assert.True(t, helper.CPU.I)
	assert.Equal(t, uint8(0x24), helper.CPU.GetStatusByte())
	assert.Equal(t, uint64(7), helper.CPU.Cycles())
	assert.Zero(t, helper.CPU.stall)
	// Reset does not push anything.
	assert.Zero(t, helper.Memory.GetWriteCount(0x01FD))
	assert.Zero(t, helper.Memory.GetWriteCount(0x01FC))
}

func TestStatusRegister(t *testing.T) {
	helper := NewCPUTestHelper()

	helper.CPU.N = true
	helper.CPU.V = false
	helper.CPU.B = true
	helper.CPU.D = false
	helper.CPU.I = true
	helper.CPU.Z = false
	helper.CPU.C = true
	assert.Equal(t, uint8(0xB5), helper.CPU.GetStatusByte())

	helper.CPU.SetStatusByte(0x42)
	assert.True(t, helper.CPU.V)
	assert.True(t, helper.CPU.Z)
	assert.True(t, helper.CPU.U)
	assert.False(t, helper.CPU.N || helper.CPU.B || helper.CPU.D || helper.CPU.I || helper.CPU.C)
	assert.Equal(t, uint8(0x62), helper.CPU.GetStatusByte())
}

func TestCPUStep(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0xEA)

	cycles := helper.MustStep(t)

	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0x8001), helper.CPU.PC)
	assert.Equal(t, uint64(9), helper.CPU.Cycles())
}

func TestStallConsumesOneCyclePerStep(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0xA9, 0x42)

	helper.CPU.Stall(3)
	for i := 0; i < 3; i++ {
		cycles := helper.MustStep(t)
		assert.Equal(t, 1, cycles)
		assert.Equal(t, uint16(0x8000), helper.CPU.PC, "no fetch while stalled")
	}
	assert.Zero(t, helper.Memory.GetReadCount(0x8000))

	helper.MustStep(t)
	assert.Equal(t, uint8(0x42), helper.CPU.A)
	assert.Equal(t, uint64(7+3+2), helper.CPU.Cycles())
}

func TestState(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0xC000)
	helper.CPU.A = 0x01
	helper.CPU.X = 0x02
	helper.CPU.Y = 0x03
	helper.CPU.C = true

	assert.Equal(t, State{A: 0x01, X: 0x02, Y: 0x03, SP: 0xFD, PC: 0xC000, P: 0x25, Cycles: 7}, helper.CPU.State())
}

func TestReadGoesThroughBus(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.Memory.SetBytes(0x0200, 0x99)

	assert.Equal(t, uint8(0x99), helper.CPU.Read(0x0200))
	assert.Equal(t, 1, helper.Memory.GetReadCount(0x0200))
}

func TestUnconnectedCPUReadsZero(t *testing.T) {
	cpu := New(zap.NewNop())
	cpu.Reset()
	assert.Equal(t, uint16(0), cpu.PC)
	assert.Equal(t, uint8(0), cpu.Read(0xFFFF))
}
