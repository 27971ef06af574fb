package cpu

import (
	"fmt"
	"strings"
)

// Disassemble decodes the instruction at address without executing it. It
// returns the mnemonic with its operand and the instruction length. Operand
// values are not read, so no memory mapped register is touched beyond the
// instruction bytes themselves.
func (cpu *CPU) Disassemble(address uint16) (string, int) {
	op := &opcodes[cpu.memory.Read(address)]
	size := instructionSize(op.mode)

	name := strings.ToUpper(op.name)

	var operand string
	switch op.mode {
	case Implied:
	case Accumulator:
		operand = "A"
	case Immediate:
		operand = fmt.Sprintf("#$%02X", cpu.memory.Read(address+1))
	case ZeroPage:
		operand = fmt.Sprintf("$%02X", cpu.memory.Read(address+1))
	case ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", cpu.memory.Read(address+1))
	case ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", cpu.memory.Read(address+1))
	case Relative:
		offset := int8(cpu.memory.Read(address + 1))
		operand = fmt.Sprintf("$%04X", uint16(int32(address)+2+int32(offset)))
	case Absolute:
		operand = fmt.Sprintf("$%04X", cpu.read16(address+1))
	case AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", cpu.read16(address+1))
	case AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", cpu.read16(address+1))
	case Indirect:
		operand = fmt.Sprintf("($%04X)", cpu.read16(address+1))
	case IndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", cpu.memory.Read(address+1))
	case IndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", cpu.memory.Read(address+1))
	}

	if operand == "" {
		return name, size
	}
	return name + " " + operand, size
}

// Trace renders the next instruction and the register file in the column
// layout of the widely used nestest log.
func (cpu *CPU) Trace() string {
	text, size := cpu.Disassemble(cpu.PC)

	raw := make([]string, size)
	for i := range raw {
		raw[i] = fmt.Sprintf("%02X", cpu.memory.Read(cpu.PC+uint16(i)))
	}

	marker := ' '
	if opcodes[cpu.memory.Read(cpu.PC)].illegal {
		marker = '*'
	}

	return fmt.Sprintf("%04X  %-9s%c%-32sA:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		cpu.PC, strings.Join(raw, " "), marker, text,
		cpu.A, cpu.X, cpu.Y, cpu.GetStatusByte(), cpu.SP, cpu.cycles)
}
