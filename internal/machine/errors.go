package machine

import (
	"errors"
	"fmt"
)

// Errors reported by the machine. Faults wrap one of these as cause.
var (
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrInvalidKey        = errors.New("invalid key")
	ErrProgramTooLarge   = fmt.Errorf("program too large: %w", ErrMemoryOutOfBounds)
)

// Fault describes a fatal error that halted the machine.
type Fault struct {
	Address     uint16 // address of the failing instruction
	Opcode      uint16 // instruction word, 0 if it could not be fetched
	Instruction string // disassembled instruction, empty if it could not be fetched
	Err         error
}

func (f *Fault) Error() string {
	if f.Instruction == "" {
		return fmt.Sprintf("fetching instruction at $%04X: %v", f.Address, f.Err)
	}
	return fmt.Sprintf("executing '%s' ($%04X) at $%04X: %v", f.Instruction, f.Opcode, f.Address, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
