package cpu

// Load operations
func (cpu *CPU) lda(info *stepInfo) {
	cpu.A = cpu.memory.Read(info.address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ldx(info *stepInfo) {
	cpu.X = cpu.memory.Read(info.address)
	cpu.setZN(cpu.X)
}

func (cpu *CPU) ldy(info *stepInfo) {
	cpu.Y = cpu.memory.Read(info.address)
	cpu.setZN(cpu.Y)
}

// Store operations
func (cpu *CPU) sta(info *stepInfo) {
	cpu.memory.Write(info.address, cpu.A)
}

func (cpu *CPU) stx(info *stepInfo) {
	cpu.memory.Write(info.address, cpu.X)
}

func (cpu *CPU) sty(info *stepInfo) {
	cpu.memory.Write(info.address, cpu.Y)
}

// Arithmetic operations
func (cpu *CPU) adc(info *stepInfo) {
	cpu.addWithCarry(cpu.memory.Read(info.address))
}

// sbc is adc of the inverted operand.
func (cpu *CPU) sbc(info *stepInfo) {
	cpu.addWithCarry(^cpu.memory.Read(info.address))
}

func (cpu *CPU) addWithCarry(value uint8) {
	var carry uint16
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry

	// Overflow when both operands share a sign the result does not.
	cpu.V = (cpu.A^value)&0x80 == 0 && (cpu.A^uint8(result))&0x80 != 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
}

// Logical operations
func (cpu *CPU) and(info *stepInfo) {
	cpu.A &= cpu.memory.Read(info.address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ora(info *stepInfo) {
	cpu.A |= cpu.memory.Read(info.address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) eor(info *stepInfo) {
	cpu.A ^= cpu.memory.Read(info.address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) bit(info *stepInfo) {
	value := cpu.memory.Read(info.address)
	cpu.V = value&vFlagMask != 0
	cpu.N = value&nFlagMask != 0
	cpu.Z = value&cpu.A == 0
}

// Shift and rotate operations, on A in accumulator mode and memory otherwise.
func (cpu *CPU) asl(info *stepInfo) {
	cpu.modify(info, func(value uint8) uint8 {
		cpu.C = value&0x80 != 0
		return value << 1
	})
}

func (cpu *CPU) lsr(info *stepInfo) {
	cpu.modify(info, func(value uint8) uint8 {
		cpu.C = value&0x01 != 0
		return value >> 1
	})
}

func (cpu *CPU) rol(info *stepInfo) {
	cpu.modify(info, func(value uint8) uint8 {
		var carry uint8
		if cpu.C {
			carry = 1
		}
		cpu.C = value&0x80 != 0
		return value<<1 | carry
	})
}

func (cpu *CPU) ror(info *stepInfo) {
	cpu.modify(info, func(value uint8) uint8 {
		var carry uint8
		if cpu.C {
			carry = 0x80
		}
		cpu.C = value&0x01 != 0
		return value>>1 | carry
	})
}

// modify applies a read-modify-write operation and sets Z and N from the result.
func (cpu *CPU) modify(info *stepInfo, op func(uint8) uint8) {
	if info.mode == Accumulator {
		cpu.A = op(cpu.A)
		cpu.setZN(cpu.A)
		return
	}
	value := op(cpu.memory.Read(info.address))
	cpu.memory.Write(info.address, value)
	cpu.setZN(value)
}

// Comparison operations
func (cpu *CPU) compare(register, value uint8) {
	cpu.C = register >= value
	cpu.setZN(register - value)
}

func (cpu *CPU) cmp(info *stepInfo) {
	cpu.compare(cpu.A, cpu.memory.Read(info.address))
}

func (cpu *CPU) cpx(info *stepInfo) {
	cpu.compare(cpu.X, cpu.memory.Read(info.address))
}

func (cpu *CPU) cpy(info *stepInfo) {
	cpu.compare(cpu.Y, cpu.memory.Read(info.address))
}

// Increment and decrement operations
func (cpu *CPU) inc(info *stepInfo) {
	value := cpu.memory.Read(info.address) + 1
	cpu.memory.Write(info.address, value)
	cpu.setZN(value)
}

func (cpu *CPU) dec(info *stepInfo) {
	value := cpu.memory.Read(info.address) - 1
	cpu.memory.Write(info.address, value)
	cpu.setZN(value)
}

func (cpu *CPU) inx(*stepInfo) {
	cpu.X++
	cpu.setZN(cpu.X)
}

func (cpu *CPU) iny(*stepInfo) {
	cpu.Y++
	cpu.setZN(cpu.Y)
}

func (cpu *CPU) dex(*stepInfo) {
	cpu.X--
	cpu.setZN(cpu.X)
}

func (cpu *CPU) dey(*stepInfo) {
	cpu.Y--
	cpu.setZN(cpu.Y)
}

// Transfer operations
func (cpu *CPU) tax(*stepInfo) {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
}

func (cpu *CPU) tay(*stepInfo) {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
}

func (cpu *CPU) txa(*stepInfo) {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
}

func (cpu *CPU) tya(*stepInfo) {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
}

func (cpu *CPU) tsx(*stepInfo) {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
}

// txs does not touch the flags.
func (cpu *CPU) txs(*stepInfo) {
	cpu.SP = cpu.X
}

// Stack operations
func (cpu *CPU) pha(*stepInfo) {
	cpu.push(cpu.A)
}

// php pushes the flags with B set on the stack copy.
func (cpu *CPU) php(*stepInfo) {
	cpu.push(cpu.GetStatusByte() | bFlagMask | unusedMask)
}

func (cpu *CPU) pla(*stepInfo) {
	cpu.A = cpu.pop()
	cpu.setZN(cpu.A)
}

// plp ignores the B and unused bits of the pulled value.
func (cpu *CPU) plp(*stepInfo) {
	cpu.SetStatusByte(cpu.pop() &^ (bFlagMask | unusedMask))
}

// Flag operations
func (cpu *CPU) clc(*stepInfo) { cpu.C = false }
func (cpu *CPU) cld(*stepInfo) { cpu.D = false }
func (cpu *CPU) cli(*stepInfo) { cpu.I = false }
func (cpu *CPU) clv(*stepInfo) { cpu.V = false }
func (cpu *CPU) sec(*stepInfo) { cpu.C = true }
func (cpu *CPU) sed(*stepInfo) { cpu.D = true }
func (cpu *CPU) sei(*stepInfo) { cpu.I = true }

// Jump and subroutine operations
func (cpu *CPU) jmp(info *stepInfo) {
	cpu.PC = info.address
}

// jsr pushes the address of its own last byte.
func (cpu *CPU) jsr(info *stepInfo) {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = info.address
}

func (cpu *CPU) rts(*stepInfo) {
	cpu.PC = cpu.popWord() + 1
}

func (cpu *CPU) rti(*stepInfo) {
	cpu.SetStatusByte(cpu.pop() &^ (bFlagMask | unusedMask))
	cpu.PC = cpu.popWord()
}

// brk skips its padding byte and enters the IRQ vector with B set on the
// pushed flags. The I flag does not mask it.
func (cpu *CPU) brk(*stepInfo) {
	cpu.PC++
	cpu.interrupt(irqVector, true)
}

func (cpu *CPU) nop(*stepInfo) {}

// Branch operations
func (cpu *CPU) branch(info *stepInfo, taken bool) {
	if !taken {
		return
	}
	cpu.cycles++
	if pagesDiffer(info.pc, info.address) {
		cpu.cycles++
	}
	cpu.PC = info.address
}

func (cpu *CPU) bcc(info *stepInfo) { cpu.branch(info, !cpu.C) }
func (cpu *CPU) bcs(info *stepInfo) { cpu.branch(info, cpu.C) }
func (cpu *CPU) beq(info *stepInfo) { cpu.branch(info, cpu.Z) }
func (cpu *CPU) bne(info *stepInfo) { cpu.branch(info, !cpu.Z) }
func (cpu *CPU) bmi(info *stepInfo) { cpu.branch(info, cpu.N) }
func (cpu *CPU) bpl(info *stepInfo) { cpu.branch(info, !cpu.N) }
func (cpu *CPU) bvc(info *stepInfo) { cpu.branch(info, !cpu.V) }
func (cpu *CPU) bvs(info *stepInfo) { cpu.branch(info, cpu.V) }

// Undocumented combined operations
func (cpu *CPU) lax(info *stepInfo) {
	value := cpu.memory.Read(info.address)
	cpu.A = value
	cpu.X = value
	cpu.setZN(value)
}

func (cpu *CPU) sax(info *stepInfo) {
	cpu.memory.Write(info.address, cpu.A&cpu.X)
}

func (cpu *CPU) dcp(info *stepInfo) {
	cpu.dec(info)
	cpu.cmp(info)
}

func (cpu *CPU) isb(info *stepInfo) {
	cpu.inc(info)
	cpu.sbc(info)
}

func (cpu *CPU) slo(info *stepInfo) {
	cpu.asl(info)
	cpu.ora(info)
}

func (cpu *CPU) rla(info *stepInfo) {
	cpu.rol(info)
	cpu.and(info)
}

func (cpu *CPU) sre(info *stepInfo) {
	cpu.lsr(info)
	cpu.eor(info)
}

func (cpu *CPU) rra(info *stepInfo) {
	cpu.ror(info)
	cpu.adc(info)
}

// anc copies the result's sign into carry.
func (cpu *CPU) anc(info *stepInfo) {
	cpu.and(info)
	cpu.C = cpu.N
}

func (cpu *CPU) alr(info *stepInfo) {
	cpu.and(info)
	cpu.lsr(&stepInfo{mode: Accumulator})
}

// arr is AND then ROR A, with C from bit 6 and V from bit 6 xor bit 5.
func (cpu *CPU) arr(info *stepInfo) {
	cpu.and(info)
	cpu.ror(&stepInfo{mode: Accumulator})
	cpu.C = cpu.A&0x40 != 0
	cpu.V = (cpu.A>>6)&1 != (cpu.A>>5)&1
}

// axs sets X to (A AND X) minus the operand, without borrow.
func (cpu *CPU) axs(info *stepInfo) {
	value := cpu.memory.Read(info.address)
	ax := cpu.A & cpu.X
	cpu.C = ax >= value
	cpu.X = ax - value
	cpu.setZN(cpu.X)
}
