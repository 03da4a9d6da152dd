package machine

import "fmt"

func (m *Machine) opNop(instructionWord) error {
	return nil
}

// opClearScreen - 00E0: clear the display.
func (m *Machine) opClearScreen(instructionWord) error {
	m.display = Display{}
	return nil
}

// opReturn - 00EE: return from a subroutine.
func (m *Machine) opReturn(instructionWord) error {
	address, err := m.pop()
	if err != nil {
		return err
	}
	m.pc = address
	return nil
}

// opJump - 1NNN: jump to NNN.
func (m *Machine) opJump(w instructionWord) error {
	m.pc = w.nnn()
	return nil
}

// opCall - 2NNN: call the subroutine at NNN.
func (m *Machine) opCall(w instructionWord) error {
	if err := m.push(m.pc); err != nil {
		return err
	}
	m.pc = w.nnn()
	return nil
}

// opSkipEqualImmediate - 3XNN: skip if VX == NN.
func (m *Machine) opSkipEqualImmediate(w instructionWord) error {
	m.skipIf(m.v[w.x()] == w.nn())
	return nil
}

// opSkipNotEqualImmediate - 4XNN: skip if VX != NN.
func (m *Machine) opSkipNotEqualImmediate(w instructionWord) error {
	m.skipIf(m.v[w.x()] != w.nn())
	return nil
}

// opSkipEqualRegister - 5XY0: skip if VX == VY.
func (m *Machine) opSkipEqualRegister(w instructionWord) error {
	m.skipIf(m.v[w.x()] == m.v[w.y()])
	return nil
}

// opLoadImmediate - 6XNN: VX = NN.
func (m *Machine) opLoadImmediate(w instructionWord) error {
	m.v[w.x()] = w.nn()
	return nil
}

// opAddImmediate - 7XNN: VX += NN, VF is not affected.
func (m *Machine) opAddImmediate(w instructionWord) error {
	m.v[w.x()] += w.nn()
	return nil
}

// opMove - 8XY0: VX = VY.
func (m *Machine) opMove(w instructionWord) error {
	m.v[w.x()] = m.v[w.y()]
	return nil
}

// opOr - 8XY1: VX |= VY.
func (m *Machine) opOr(w instructionWord) error {
	m.v[w.x()] |= m.v[w.y()]
	return nil
}

// opAnd - 8XY2: VX &= VY.
func (m *Machine) opAnd(w instructionWord) error {
	m.v[w.x()] &= m.v[w.y()]
	return nil
}

// opXor - 8XY3: VX ^= VY.
func (m *Machine) opXor(w instructionWord) error {
	m.v[w.x()] ^= m.v[w.y()]
	return nil
}

// opAddRegister - 8XY4: VX += VY, VF = 1 on carry.
// The flag is written after the result, so VF holds the flag if X is F.
func (m *Machine) opAddRegister(w instructionWord) error {
	sum := uint16(m.v[w.x()]) + uint16(m.v[w.y()])
	m.v[w.x()] = uint8(sum)
	m.setFlag(sum > 0xFF)
	return nil
}

// opSub - 8XY5: VX -= VY, VF = 1 if no borrow occurred.
func (m *Machine) opSub(w instructionWord) error {
	vx, vy := m.v[w.x()], m.v[w.y()]
	m.v[w.x()] = vx - vy
	m.setFlag(vx >= vy)
	return nil
}

// opShiftRight - 8XY6: VX >>= 1, VF = the bit shifted out.
func (m *Machine) opShiftRight(w instructionWord) error {
	vx := m.v[w.x()]
	m.v[w.x()] = vx >> 1
	m.v[FlagRegister] = vx & 0x01
	return nil
}

// opSubReverse - 8XY7: VX = VY - VX, VF = 1 if no borrow occurred.
func (m *Machine) opSubReverse(w instructionWord) error {
	vx, vy := m.v[w.x()], m.v[w.y()]
	m.v[w.x()] = vy - vx
	m.setFlag(vy >= vx)
	return nil
}

// opShiftLeft - 8XYE: VX <<= 1, VF = the bit shifted out.
func (m *Machine) opShiftLeft(w instructionWord) error {
	vx := m.v[w.x()]
	m.v[w.x()] = vx << 1
	m.v[FlagRegister] = vx >> 7
	return nil
}

// opSkipNotEqualRegister - 9XY0: skip if VX != VY.
func (m *Machine) opSkipNotEqualRegister(w instructionWord) error {
	m.skipIf(m.v[w.x()] != m.v[w.y()])
	return nil
}

// opLoadIndex - ANNN: I = NNN.
func (m *Machine) opLoadIndex(w instructionWord) error {
	m.index = w.nnn()
	return nil
}

// opJumpOffset - BNNN: jump to NNN + V0.
func (m *Machine) opJumpOffset(w instructionWord) error {
	m.pc = w.nnn() + uint16(m.v[0])
	return nil
}

// opRandom - CXNN: VX = random byte & NN.
func (m *Machine) opRandom(w instructionWord) error {
	m.v[w.x()] = uint8(m.rng.Uint32()) & w.nn()
	return nil
}

// opDraw - DXYN: XOR an N byte sprite from memory at I onto the display at
// (VX, VY). Every pixel wraps around the display edges on its own.
// VF = 1 if a lit pixel was turned off.
func (m *Machine) opDraw(w instructionWord) error {
	rows := uint16(w.n())
	if err := m.checkRange(m.index, rows); err != nil {
		return err
	}

	originX := int(m.v[w.x()])
	originY := int(m.v[w.y()])
	var collision bool

	for row := range int(rows) {
		sprite := m.memory[int(m.index)+row]
		y := (originY + row) % Height

		for column := range 8 {
			if sprite&(0x80>>column) == 0 {
				continue
			}
			x := (originX + column) % Width
			pixel := x + Width*y
			if m.display[pixel] {
				collision = true
			}
			m.display[pixel] = !m.display[pixel]
		}
	}

	m.setFlag(collision)
	return nil
}

// opSkipKeyPressed - EX9E: skip if the key VX is pressed.
func (m *Machine) opSkipKeyPressed(w instructionWord) error {
	key, err := m.keyFromRegister(w.x())
	if err != nil {
		return err
	}
	m.skipIf(m.keys[key])
	return nil
}

// opSkipKeyNotPressed - EXA1: skip if the key VX is not pressed.
func (m *Machine) opSkipKeyNotPressed(w instructionWord) error {
	key, err := m.keyFromRegister(w.x())
	if err != nil {
		return err
	}
	m.skipIf(!m.keys[key])
	return nil
}

func (m *Machine) keyFromRegister(register uint8) (uint8, error) {
	key := m.v[register]
	if key >= KeyCount {
		return 0, fmt.Errorf("key $%02X in V%X: %w", key, register, ErrInvalidKey)
	}
	return key, nil
}

// opLoadDelayTimer - FX07: VX = delay timer.
func (m *Machine) opLoadDelayTimer(w instructionWord) error {
	m.v[w.x()] = m.delayTimer
	return nil
}

// opWaitKey - FX0A: wait for a key press and store the lowest pressed key in
// VX. While no key is pressed the program counter is rewound, so the
// instruction executes again on the next step.
func (m *Machine) opWaitKey(w instructionWord) error {
	for key, pressed := range m.keys {
		if pressed {
			m.v[w.x()] = uint8(key)
			return nil
		}
	}
	m.pc -= instructionSize
	return nil
}

// opSetDelayTimer - FX15: delay timer = VX.
func (m *Machine) opSetDelayTimer(w instructionWord) error {
	m.delayTimer = m.v[w.x()]
	return nil
}

// opSetSoundTimer - FX18: sound timer = VX.
func (m *Machine) opSetSoundTimer(w instructionWord) error {
	m.soundTimer = m.v[w.x()]
	return nil
}

// opAddIndex - FX1E: I += VX, wrapping at 16 bits, VF is not affected.
func (m *Machine) opAddIndex(w instructionWord) error {
	m.index += uint16(m.v[w.x()])
	return nil
}

// opFontAddress - FX29: I = address of the font glyph for the low nibble of VX.
func (m *Machine) opFontAddress(w instructionWord) error {
	m.index = FontAddress + uint16(m.v[w.x()]&0x0F)*FontGlyphSize
	return nil
}

// opStoreBCD - FX33: store the decimal digits of VX at I, I+1 and I+2.
func (m *Machine) opStoreBCD(w instructionWord) error {
	if err := m.checkRange(m.index, 3); err != nil {
		return err
	}
	value := m.v[w.x()]
	m.memory[m.index] = value / 100
	m.memory[m.index+1] = value / 10 % 10
	m.memory[m.index+2] = value % 10
	return nil
}

// opStoreRegisters - FX55: store V0 to VX in memory starting at I.
// I is not modified.
func (m *Machine) opStoreRegisters(w instructionWord) error {
	count := uint16(w.x()) + 1
	if err := m.checkRange(m.index, count); err != nil {
		return err
	}
	copy(m.memory[m.index:], m.v[:count])
	return nil
}

// opLoadRegisters - FX65: load V0 to VX from memory starting at I.
// I is not modified.
func (m *Machine) opLoadRegisters(w instructionWord) error {
	count := uint16(w.x()) + 1
	if err := m.checkRange(m.index, count); err != nil {
		return err
	}
	copy(m.v[:count], m.memory[m.index:m.index+count])
	return nil
}
