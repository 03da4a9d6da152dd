// Package machine implements the CHIP-8 virtual machine core.
//
// # Machine State
//
// A Machine owns the complete state of one CHIP-8 system:
//   - 4KB of memory (0x000-0xFFF), the font set at 0x000-0x04F
//   - 16 general purpose 8-bit registers V0-VF, VF doubles as flag register
//   - the 16-bit index register I and the program counter
//   - a 16 entry return address stack
//   - a 64x32 monochrome display
//   - 16 key states and the delay and sound timers
//
// # Execution
//
// Step fetches the big-endian instruction word at the program counter,
// advances the program counter by 2 and executes the instruction. Timers are
// not decremented by Step; the host calls TickTimers at its own fixed rate,
// conventionally 60 Hz.
//
// Waiting for a key (FX0A) never blocks: the instruction rewinds the program
// counter so the next Step executes it again until a key is pressed.
//
// # Faults
//
// Out of bounds memory access, unknown opcodes and stack overflow or underflow
// halt the machine. Step returns a *Fault describing the failing instruction
// and keeps returning it until Reset is called.
//
// # Usage Example
//
//	m := machine.New(logger, options.Machine{})
//	if err := m.Load(image); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	for {
//		if err := m.Step(); err != nil {
//			return err
//		}
//	}
package machine
