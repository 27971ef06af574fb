package cpu

// stepInfo carries the resolved operand into an instruction handler.
type stepInfo struct {
	address uint16
	pc      uint16 // PC after the operand bytes
	mode    AddressingMode
}

// getOperandAddress advances PC past the instruction and returns the
// effective address for mode. The flag reports an indexed access that
// crossed a page, the only case that can cost an extra cycle.
func (cpu *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	pc := cpu.PC
	cpu.PC += uint16(instructionSize(mode))

	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		return pc + 1, false

	case ZeroPage:
		return uint16(cpu.memory.Read(pc + 1)), false

	case ZeroPageX:
		return uint16(cpu.memory.Read(pc+1) + cpu.X), false

	case ZeroPageY:
		return uint16(cpu.memory.Read(pc+1) + cpu.Y), false

	case Relative:
		offset := int8(cpu.memory.Read(pc + 1))
		return uint16(int32(cpu.PC) + int32(offset)), false

	case Absolute:
		return cpu.read16(pc + 1), false

	case AbsoluteX:
		base := cpu.read16(pc + 1)
		address := base + uint16(cpu.X)
		return address, pagesDiffer(base, address)

	case AbsoluteY:
		base := cpu.read16(pc + 1)
		address := base + uint16(cpu.Y)
		return address, pagesDiffer(base, address)

	case Indirect:
		return cpu.read16bug(cpu.read16(pc + 1)), false

	case IndexedIndirect:
		pointer := cpu.memory.Read(pc+1) + cpu.X
		return cpu.read16bug(uint16(pointer)), false

	case IndirectIndexed:
		base := cpu.read16bug(uint16(cpu.memory.Read(pc + 1)))
		address := base + uint16(cpu.Y)
		return address, pagesDiffer(base, address)

	default:
		return 0, false
	}
}

// instructionSize returns the opcode length in bytes for mode.
func instructionSize(mode AddressingMode) int {
	switch mode {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

func pagesDiffer(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (m AddressingMode) String() string {
	switch m {
	case Implied:
		return "implied"
	case Accumulator:
		return "accumulator"
	case Immediate:
		return "immediate"
	case ZeroPage:
		return "zeropage"
	case ZeroPageX:
		return "zeropage,x"
	case ZeroPageY:
		return "zeropage,y"
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	case AbsoluteX:
		return "absolute,x"
	case AbsoluteY:
		return "absolute,y"
	case Indirect:
		return "indirect"
	case IndexedIndirect:
		return "(indirect,x)"
	case IndirectIndexed:
		return "(indirect),y"
	default:
		return "unknown"
	}
}
