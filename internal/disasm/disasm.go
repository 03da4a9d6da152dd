// Package disasm formats CHIP-8 instruction words as assembly code.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// nop is the text for the all zero instruction word, which executes as no-op.
const nop = "nop"

// Lookup returns the opcode definition matching the instruction word.
func Lookup(word uint16) (chip8.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// Instruction returns the assembly code for the instruction word.
// Words that do not decode to an instruction are returned as data.
func Instruction(word uint16) string {
	if word == 0 {
		return nop
	}

	op, ok := Lookup(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}

	name := op.Instruction.Name
	if params := formatParams(name, word); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatParams formats the parameters of an instruction.
func formatParams(name string, opcode uint16) string {
	switch name {
	case chip8.Cls.Name, chip8.Ret.Name:
		return ""
	case chip8.Jp.Name:
		return formatJump(opcode)
	case chip8.Call.Name:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.Se.Name, chip8.Sne.Name:
		return formatCompare(opcode)
	case chip8.Ld.Name:
		return formatLoad(opcode)
	case chip8.Add.Name:
		return formatAdd(opcode)
	case chip8.Or.Name, chip8.And.Name, chip8.Xor.Name, chip8.Sub.Name, chip8.Subn.Name:
		return formatRegisters(opcode)
	case chip8.Shr.Name, chip8.Shl.Name, chip8.Skp.Name, chip8.Sknp.Name:
		return formatRegister(opcode)
	case chip8.Rnd.Name:
		return formatRegisterImmediate(opcode)
	case chip8.Drw.Name:
		return formatDraw(opcode)
	}
	return ""
}

// formatJump formats jump instructions (JP addr, JP V0, addr).
func formatJump(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompare formats comparison instructions.
//
//	3XNN: SE Vx, byte
//	4XNN: SNE Vx, byte
//	5XY0: SE Vx, Vy
//	9XY0: SNE Vx, Vy
func formatCompare(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return formatRegisterImmediate(opcode)
	case 0x5000, 0x9000:
		return formatRegisters(opcode)
	}
	return ""
}

// formatLoad formats all forms of the load instruction.
func formatLoad(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return formatRegisterImmediate(opcode)
	case 0x8000:
		return formatRegisters(opcode)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		switch opcode & 0x00FF {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}

// formatAdd formats add instructions (ADD Vx, byte / Vx, Vy / I, Vx).
func formatAdd(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x7000:
		return formatRegisterImmediate(opcode)
	case 0x8000:
		return formatRegisters(opcode)
	case 0xF000:
		return fmt.Sprintf("I, V%X", registerX(opcode))
	}
	return ""
}

func formatRegisters(opcode uint16) string {
	return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
}

func formatRegister(opcode uint16) string {
	return fmt.Sprintf("V%X", registerX(opcode))
}

func formatRegisterImmediate(opcode uint16) string {
	return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
}

// formatDraw formats draw instructions (DRW Vx, Vy, nibble).
func formatDraw(opcode uint16) string {
	return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
}

// registerX extracts the X register nibble from a CHIP-8 opcode.
func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// registerY extracts the Y register nibble from a CHIP-8 opcode.
func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
