package machine

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Machine is a CHIP-8 virtual machine. It is not safe for concurrent use,
// hosts call all methods from a single loop.
type Machine struct {
	logger  *log.Logger
	options options.Machine
	rng     *rand.Rand

	pc         uint16
	index      uint16
	memory     [MemorySize]byte
	display    Display
	v          [RegisterCount]uint8
	stack      [StackSize]uint16
	sp         uint8
	keys       [KeyCount]bool
	delayTimer uint8
	soundTimer uint8

	cycles uint64
	fault  *Fault
}

// State is a snapshot of the registers, stack, timers and keys of a machine.
type State struct {
	PC         uint16
	Index      uint16
	V          [RegisterCount]uint8
	Stack      [StackSize]uint16
	SP         uint8
	DelayTimer uint8
	SoundTimer uint8
	Keys       [KeyCount]bool
}

// New returns a new machine with the font set loaded and the program counter
// at the program start address.
func New(logger *log.Logger, opts options.Machine) *Machine {
	m := &Machine{
		logger:  logger,
		options: opts,
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state. The program image is
// cleared from memory and has to be loaded again.
func (m *Machine) Reset() {
	m.pc = ProgramStart
	m.index = 0
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontAddress:], fontSet[:])
	m.display = Display{}
	m.v = [RegisterCount]uint8{}
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.keys = [KeyCount]bool{}
	m.delayTimer = 0
	m.soundTimer = 0
	m.cycles = 0
	m.fault = nil
	m.rng = newRandom(m.options.Seed)
}

// newRandom returns the random source for the random byte instruction.
// A fixed seed makes runs reproducible.
func newRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Load copies the program image into memory starting at ProgramStart.
// No other state is modified.
func (m *Machine) Load(image []byte) error {
	if len(image) > MaxProgramSize {
		return fmt.Errorf("loading %d bytes, maximum is %d: %w", len(image), MaxProgramSize, ErrProgramTooLarge)
	}
	copy(m.memory[ProgramStart:], image)
	return nil
}

// Step executes a single instruction. A returned error is a *Fault, after
// which the machine stays halted until Reset.
func (m *Machine) Step() error {
	if m.fault != nil {
		return m.fault
	}

	address := m.pc
	w, err := m.fetch()
	if err != nil {
		return m.halt(address, nil, err)
	}

	op, ok := decode(w)
	if !ok {
		if m.options.SkipUnknownOpcodes {
			m.logger.Warn("Skipping unknown opcode",
				log.Hex("address", address),
				log.Hex("opcode", uint16(w)))
			m.cycles++
			return nil
		}
		return m.halt(address, &w, ErrUnknownOpcode)
	}

	if m.options.Trace {
		m.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.String("instruction", disasm.Instruction(uint16(w))))
	}

	if err := op.exec(m, w); err != nil {
		return m.halt(address, &w, err)
	}
	m.cycles++
	return nil
}

// fetch reads the big-endian instruction word at the program counter and
// advances the program counter past it.
func (m *Machine) fetch() (instructionWord, error) {
	if err := m.checkRange(m.pc, instructionSize); err != nil {
		return 0, err
	}
	w := instructionWord(m.memory[m.pc])<<8 | instructionWord(m.memory[m.pc+1])
	m.pc += instructionSize
	return w, nil
}

// halt records a fault for the instruction at address and rewinds the
// program counter to it. Reporting the fault is left to the caller.
func (m *Machine) halt(address uint16, w *instructionWord, err error) error {
	fault := &Fault{
		Address: address,
		Err:     err,
	}
	if w != nil {
		fault.Opcode = uint16(*w)
		fault.Instruction = disasm.Instruction(uint16(*w))
	}

	m.pc = address
	m.fault = fault
	m.logger.Debug("Machine halted", log.Err(fault))
	return fault
}

// TickTimers decrements the delay and sound timers if they are not zero.
// It returns whether the tone should be active for this tick.
func (m *Machine) TickTimers() bool {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer == 0 {
		return false
	}
	m.soundTimer--
	return true
}

// SetKey sets the pressed state of a keypad key.
func (m *Machine) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("setting key $%02X: %w", key, ErrInvalidKey)
	}
	m.keys[key] = pressed
	return nil
}

// Display returns a copy of the current display.
func (m *Machine) Display() *Display {
	d := m.display
	return &d
}

// ReadMemory returns the byte at the given memory address.
func (m *Machine) ReadMemory(address uint16) (byte, error) {
	if err := m.checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.memory[address], nil
}

// State returns a snapshot of the registers, stack, timers and keys.
func (m *Machine) State() State {
	return State{
		PC:         m.pc,
		Index:      m.index,
		V:          m.v,
		Stack:      m.stack,
		SP:         m.sp,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
		Keys:       m.keys,
	}
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// Halted returns whether a fault stopped the machine.
func (m *Machine) Halted() bool {
	return m.fault != nil
}

// Cycles returns the number of instructions executed since the last reset.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// checkRange verifies that length bytes starting at address are within memory.
func (m *Machine) checkRange(address, length uint16) error {
	if length == 0 {
		return nil
	}
	if int(address)+int(length) > MemorySize {
		return fmt.Errorf("accessing %d bytes at $%04X: %w", length, address, ErrMemoryOutOfBounds)
	}
	return nil
}

func (m *Machine) push(address uint16) error {
	if m.sp >= StackSize {
		return fmt.Errorf("call depth %d: %w", m.sp, ErrStackOverflow)
	}
	m.stack[m.sp] = address
	m.sp++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.sp == 0 {
		return 0, ErrStackUnderflow
	}
	m.sp--
	return m.stack[m.sp], nil
}

// setFlag sets VF to 1 if set is true, otherwise to 0.
func (m *Machine) setFlag(set bool) {
	if set {
		m.v[FlagRegister] = 1
	} else {
		m.v[FlagRegister] = 0
	}
}

// skipIf skips the next instruction if the condition is true.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += instructionSize
	}
}
