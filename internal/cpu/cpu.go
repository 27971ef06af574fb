// Package cpu implements the 6502 CPU emulation for the NES.
package cpu

import (
	"go.uber.org/zap"
)

// AddressingMode identifies how an opcode resolves its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	// Status register bit masks
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	// interruptCycles is the stall added when an interrupt is taken.
	interruptCycles = 7
	// resetCycles is the cycle counter value after the reset sequence.
	resetCycles = 7
)

// Bus is the CPU view of the address space.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the 6502 processor used in the NES
type CPU struct {
	// Registers
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	SP uint8  // Stack pointer
	PC uint16 // Program counter

	// Status register flags
	C bool // Carry
	Z bool // Zero
	I bool // Interrupt disable
	D bool // Decimal mode (stored, arithmetic ignores it)
	B bool // Break
	U bool // Unused, reads back as set
	V bool // Overflow
	N bool // Negative

	memory Bus

	cycles uint64
	stall  int

	// irqLine is the level of the shared IRQ input.
	irqLine bool

	logger *zap.Logger
}

// State is a snapshot of the programmer visible registers.
type State struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
	Cycles      uint64
}

// New creates a CPU. It has no bus until Connect is called.
func New(logger *zap.Logger) *CPU {
	return &CPU{
		SP:     0xFD,
		I:      true,
		U:      true,
		memory: openBus{},
		logger: logger,
	}
}

// Connect attaches the CPU to its bus.
func (cpu *CPU) Connect(bus Bus) {
	cpu.memory = bus
}

// Reset loads the reset vector. Nothing is pushed to the stack.
func (cpu *CPU) Reset() {
	cpu.PC = cpu.read16(resetVector)
	cpu.SP = 0xFD
	cpu.SetStatusByte(0x24)
	cpu.cycles = resetCycles
	cpu.stall = 0
	cpu.irqLine = false
	cpu.logger.Debug("reset", zap.String("pc", hex16(cpu.PC)))
}

// Step executes one instruction, or burns one stall cycle, and returns the
// number of cycles it took.
func (cpu *CPU) Step() (int, error) {
	if cpu.irqLine && !cpu.I {
		cpu.interrupt(irqVector, false)
	}

	if cpu.stall > 0 {
		cpu.stall--
		cpu.cycles++
		return 1, nil
	}

	start := cpu.cycles
	pc := cpu.PC
	code := cpu.memory.Read(pc)
	op := &opcodes[code]

	if op.handler == nil {
		err := &UnimplementedOpcodeError{Opcode: code, Name: op.name, PC: pc}
		cpu.logger.Error("unimplemented opcode",
			zap.String("opcode", hex8(code)),
			zap.String("name", op.name),
			zap.String("pc", hex16(pc)))
		return 0, err
	}

	address, pageCrossed := cpu.getOperandAddress(op.mode)
	op.handler(cpu, &stepInfo{address: address, pc: cpu.PC, mode: op.mode})

	cpu.cycles += uint64(op.cycles)
	if pageCrossed {
		cpu.cycles += uint64(op.pageCycles)
	}
	return int(cpu.cycles - start), nil
}

// TriggerNMI takes the non-maskable interrupt.
func (cpu *CPU) TriggerNMI() {
	cpu.interrupt(nmiVector, false)
}

// TriggerIRQ asserts the IRQ line. The interrupt is taken at the next
// instruction boundary where the I flag is clear and the line is still
// asserted.
func (cpu *CPU) TriggerIRQ() {
	cpu.irqLine = true
}

// AcknowledgeIRQ releases the IRQ line.
func (cpu *CPU) AcknowledgeIRQ() {
	cpu.irqLine = false
}

// Stall suspends instruction fetch for the given number of cycles.
func (cpu *CPU) Stall(cycles int) {
	cpu.stall += cycles
}

// Stalled reports whether the next Step only burns a stall cycle.
func (cpu *CPU) Stalled() bool {
	return cpu.stall > 0
}

// Cycles returns the number of cycles elapsed since reset.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// Read reads a byte through the CPU bus, used as the OAM DMA source.
func (cpu *CPU) Read(address uint16) uint8 {
	return cpu.memory.Read(address)
}

// State returns a register snapshot.
func (cpu *CPU) State() State {
	return State{
		A:      cpu.A,
		X:      cpu.X,
		Y:      cpu.Y,
		SP:     cpu.SP,
		PC:     cpu.PC,
		P:      cpu.GetStatusByte(),
		Cycles: cpu.cycles,
	}
}

// interrupt pushes PC and the flags then jumps through vector.
func (cpu *CPU) interrupt(vector uint16, brk bool) {
	status := cpu.GetStatusByte() | unusedMask
	if brk {
		status |= bFlagMask
	} else {
		status &^= bFlagMask
	}
	cpu.pushWord(cpu.PC)
	cpu.push(status)
	cpu.I = true
	cpu.PC = cpu.read16(vector)
	cpu.stall += interruptCycles

	if vector == nmiVector {
		cpu.logger.Debug("nmi", zap.String("pc", hex16(cpu.PC)))
	}
}

func (cpu *CPU) read16(address uint16) uint16 {
	low := uint16(cpu.memory.Read(address))
	high := uint16(cpu.memory.Read(address + 1))
	return high<<8 | low
}

// read16bug reads a pointer without carrying into the high byte of the
// address, the way JMP ($xxFF) and zero page pointers behave.
func (cpu *CPU) read16bug(address uint16) uint16 {
	next := address&0xFF00 | uint16(uint8(address)+1)
	low := uint16(cpu.memory.Read(address))
	high := uint16(cpu.memory.Read(next))
	return high<<8 | low
}

func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return high<<8 | low
}

// setZN sets Zero and Negative from value.
func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// GetStatusByte packs the flags into the P register layout.
func (cpu *CPU) GetStatusByte() uint8 {
	var status uint8
	if cpu.N {
		status |= nFlagMask
	}
	if cpu.V {
		status |= vFlagMask
	}
	if cpu.U {
		status |= unusedMask
	}
	if cpu.B {
		status |= bFlagMask
	}
	if cpu.D {
		status |= dFlagMask
	}
	if cpu.I {
		status |= iFlagMask
	}
	if cpu.Z {
		status |= zFlagMask
	}
	if cpu.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte unpacks a P register value. U always reads back set.
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = status&nFlagMask != 0
	cpu.V = status&vFlagMask != 0
	cpu.U = true
	cpu.B = status&bFlagMask != 0
	cpu.D = status&dFlagMask != 0
	cpu.I = status&iFlagMask != 0
	cpu.Z = status&zFlagMask != 0
	cpu.C = status&cFlagMask != 0
}

type openBus struct{}

func (openBus) Read(uint16) uint8   { return 0 }
func (openBus) Write(uint16, uint8) {}
