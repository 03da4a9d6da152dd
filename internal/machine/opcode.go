package machine

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// instructionWord is a fetched 16-bit instruction, split into the nibbles
// class (bits 12-15), x (bits 8-11), y (bits 4-7) and n (bits 0-3).
type instructionWord uint16

func (w instructionWord) class() uint8 {
	return uint8(w >> 12)
}

func (w instructionWord) x() uint8 {
	return uint8(w>>8) & 0x0F
}

func (w instructionWord) y() uint8 {
	return uint8(w>>4) & 0x0F
}

func (w instructionWord) n() uint8 {
	return uint8(w) & 0x0F
}

// nn returns the 8-bit immediate.
func (w instructionWord) nn() uint8 {
	return uint8(w)
}

// nnn returns the 12-bit address.
func (w instructionWord) nnn() uint16 {
	return uint16(w) & 0x0FFF
}

// executor runs a decoded instruction. A returned error halts the machine.
type executor func(m *Machine, w instructionWord) error

// opcode maps all instruction words matching value under mask to an executor.
type opcode struct {
	mask  uint16
	value uint16
	ins   *chip8.Instruction // nil for the no-op
	exec  executor
}

// opcodes contains all instructions grouped by their class nibble.
// Words that match no entry are unknown opcodes.
var opcodes = [16][]opcode{
	0x0: {
		{mask: 0xFFFF, value: 0x0000, exec: (*Machine).opNop},
		{mask: 0xFFFF, value: 0x00E0, ins: chip8.Cls, exec: (*Machine).opClearScreen},
		{mask: 0xFFFF, value: 0x00EE, ins: chip8.Ret, exec: (*Machine).opReturn},
	},
	0x1: {
		{mask: 0xF000, value: 0x1000, ins: chip8.Jp, exec: (*Machine).opJump},
	},
	0x2: {
		{mask: 0xF000, value: 0x2000, ins: chip8.Call, exec: (*Machine).opCall},
	},
	0x3: {
		{mask: 0xF000, value: 0x3000, ins: chip8.Se, exec: (*Machine).opSkipEqualImmediate},
	},
	0x4: {
		{mask: 0xF000, value: 0x4000, ins: chip8.Sne, exec: (*Machine).opSkipNotEqualImmediate},
	},
	0x5: {
		{mask: 0xF00F, value: 0x5000, ins: chip8.Se, exec: (*Machine).opSkipEqualRegister},
	},
	0x6: {
		{mask: 0xF000, value: 0x6000, ins: chip8.Ld, exec: (*Machine).opLoadImmediate},
	},
	0x7: {
		{mask: 0xF000, value: 0x7000, ins: chip8.Add, exec: (*Machine).opAddImmediate},
	},
	0x8: {
		{mask: 0xF00F, value: 0x8000, ins: chip8.Ld, exec: (*Machine).opMove},
		{mask: 0xF00F, value: 0x8001, ins: chip8.Or, exec: (*Machine).opOr},
		{mask: 0xF00F, value: 0x8002, ins: chip8.And, exec: (*Machine).opAnd},
		{mask: 0xF00F, value: 0x8003, ins: chip8.Xor, exec: (*Machine).opXor},
		{mask: 0xF00F, value: 0x8004, ins: chip8.Add, exec: (*Machine).opAddRegister},
		{mask: 0xF00F, value: 0x8005, ins: chip8.Sub, exec: (*Machine).opSub},
		{mask: 0xF00F, value: 0x8006, ins: chip8.Shr, exec: (*Machine).opShiftRight},
		{mask: 0xF00F, value: 0x8007, ins: chip8.Subn, exec: (*Machine).opSubReverse},
		{mask: 0xF00F, value: 0x800E, ins: chip8.Shl, exec: (*Machine).opShiftLeft},
	},
	0x9: {
		{mask: 0xF00F, value: 0x9000, ins: chip8.Sne, exec: (*Machine).opSkipNotEqualRegister},
	},
	0xA: {
		{mask: 0xF000, value: 0xA000, ins: chip8.Ld, exec: (*Machine).opLoadIndex},
	},
	0xB: {
		{mask: 0xF000, value: 0xB000, ins: chip8.Jp, exec: (*Machine).opJumpOffset},
	},
	0xC: {
		{mask: 0xF000, value: 0xC000, ins: chip8.Rnd, exec: (*Machine).opRandom},
	},
	0xD: {
		{mask: 0xF000, value: 0xD000, ins: chip8.Drw, exec: (*Machine).opDraw},
	},
	0xE: {
		{mask: 0xF0FF, value: 0xE09E, ins: chip8.Skp, exec: (*Machine).opSkipKeyPressed},
		{mask: 0xF0FF, value: 0xE0A1, ins: chip8.Sknp, exec: (*Machine).opSkipKeyNotPressed},
	},
	0xF: {
		{mask: 0xF0FF, value: 0xF007, ins: chip8.Ld, exec: (*Machine).opLoadDelayTimer},
		{mask: 0xF0FF, value: 0xF00A, ins: chip8.Ld, exec: (*Machine).opWaitKey},
		{mask: 0xF0FF, value: 0xF015, ins: chip8.Ld, exec: (*Machine).opSetDelayTimer},
		{mask: 0xF0FF, value: 0xF018, ins: chip8.Ld, exec: (*Machine).opSetSoundTimer},
		{mask: 0xF0FF, value: 0xF01E, ins: chip8.Add, exec: (*Machine).opAddIndex},
		{mask: 0xF0FF, value: 0xF029, ins: chip8.Ld, exec: (*Machine).opFontAddress},
		{mask: 0xF0FF, value: 0xF033, ins: chip8.Ld, exec: (*Machine).opStoreBCD},
		{mask: 0xF0FF, value: 0xF055, ins: chip8.Ld, exec: (*Machine).opStoreRegisters},
		{mask: 0xF0FF, value: 0xF065, ins: chip8.Ld, exec: (*Machine).opLoadRegisters},
	},
}

// decode returns the opcode that the instruction word maps to.
func decode(w instructionWord) (opcode, bool) {
	for _, op := range opcodes[w.class()] {
		if uint16(w)&op.mask == op.value {
			return op, true
		}
	}
	return opcode{}, false
}
