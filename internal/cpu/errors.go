package cpu

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is wrapped by UnimplementedOpcodeError.
var ErrNotImplemented = errors.New("not implemented")

// UnimplementedOpcodeError reports an undocumented opcode the CPU does not emulate.
type UnimplementedOpcodeError struct {
	Opcode uint8
	Name   string
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("opcode %s ($%02X) at $%04X: %v", e.Name, e.Opcode, e.PC, ErrNotImplemented)
}

func (e *UnimplementedOpcodeError) Unwrap() error {
	return ErrNotImplemented
}

func hex8(v uint8) string   { return fmt.Sprintf("$%02X", v) }
func hex16(v uint16) string { return fmt.Sprintf("$%04X", v) }
