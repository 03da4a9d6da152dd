package machine

// CHIP-8 memory layout and hardware constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the address that program images are loaded to and
	// execution starts at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// Width and Height are the display dimensions in pixels.
	Width  = 64
	Height = 32

	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, which instructions overwrite to
	// report carry, borrow, shifted out bits and sprite collisions.
	FlagRegister = 0xF

	// StackSize is the maximum subroutine call depth.
	StackSize = 16

	// KeyCount is the number of keys of the hexadecimal keypad.
	KeyCount = 16
)

const instructionSize = 2
