package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		setup   func(m *Machine)
		steps   int
		pc      uint16
	}{
		{"jump", []uint16{0x1ABC}, nil, 1, 0xABC},
		{"jump offset", []uint16{0xB300}, func(m *Machine) { m.v[0] = 0x12 }, 1, 0x312},
		{"jump offset ignores other registers", []uint16{0xB300}, func(m *Machine) { m.v[1] = 0x12 }, 1, 0x300},
		{"skip equal immediate taken", []uint16{0x3A12}, func(m *Machine) { m.v[0xA] = 0x12 }, 1, 0x204},
		{"skip equal immediate not taken", []uint16{0x3A12}, func(m *Machine) { m.v[0xA] = 0x13 }, 1, 0x202},
		{"skip not equal immediate taken", []uint16{0x4A12}, func(m *Machine) { m.v[0xA] = 0x13 }, 1, 0x204},
		{"skip not equal immediate not taken", []uint16{0x4A12}, func(m *Machine) { m.v[0xA] = 0x12 }, 1, 0x202},
		{"skip equal registers taken", []uint16{0x5120}, func(m *Machine) { m.v[1], m.v[2] = 7, 7 }, 1, 0x204},
		{"skip equal registers not taken", []uint16{0x5120}, func(m *Machine) { m.v[1], m.v[2] = 7, 8 }, 1, 0x202},
		{"skip not equal registers taken", []uint16{0x9120}, func(m *Machine) { m.v[1], m.v[2] = 7, 8 }, 1, 0x204},
		{"skip not equal registers not taken", []uint16{0x9120}, func(m *Machine) { m.v[1], m.v[2] = 7, 7 }, 1, 0x202},
		{"skip key pressed taken", []uint16{0xE39E}, func(m *Machine) { m.v[3], m.keys[5] = 5, true }, 1, 0x204},
		{"skip key pressed not taken", []uint16{0xE39E}, func(m *Machine) { m.v[3], m.keys[4] = 5, true }, 1, 0x202},
		{"skip key not pressed taken", []uint16{0xE3A1}, func(m *Machine) { m.v[3], m.keys[4] = 5, true }, 1, 0x204},
		{"skip key not pressed not taken", []uint16{0xE3A1}, func(m *Machine) { m.v[3], m.keys[5] = 5, true }, 1, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.program...)
			if tt.setup != nil {
				tt.setup(m)
			}

			runSteps(t, m, tt.steps)
			assert.Equal(t, tt.pc, m.State().PC)
		})
	}
}

func TestCallAndReturn(t *testing.T) {
	m := newTestMachine(t,
		0x2206, // $200: call $206
		0x6101, // $202: ld V1, $01
		0x1204, // $204: jp $204
		0x6002, // $206: ld V0, $02
		0x00EE, // $208: ret
	)

	runSteps(t, m, 1)
	state := m.State()
	assert.Equal(t, uint16(0x206), state.PC)
	assert.Equal(t, uint8(1), state.SP)
	assert.Equal(t, uint16(0x202), state.Stack[0])

	runSteps(t, m, 2)
	state = m.State()
	assert.Equal(t, uint16(0x202), state.PC)
	assert.Equal(t, uint8(0), state.SP)

	runSteps(t, m, 2)
	assert.Equal(t, uint16(0x204), m.State().PC)
	assert.Equal(t, uint8(2), m.v[0])
	assert.Equal(t, uint8(1), m.v[1])
}

func TestCall_StackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x2200) // call $200, recursing forever

	runSteps(t, m, StackSize)
	assert.Equal(t, uint8(StackSize), m.State().SP)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackSize), m.State().SP)
	assert.True(t, m.Halted())
}

func TestReturn_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint8(0), m.State().SP)
	assert.Equal(t, uint16(ProgramStart), m.State().PC)
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t, 0x00E0)
	for i := range m.display {
		m.display[i] = true
	}

	runSteps(t, m, 1)
	assert.Equal(t, 0, m.Display().Lit())
}

func TestRegisterInstructions(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		vx, vy uint8
		flag   uint8 // VF before execution
		result uint8
		vf     uint8 // VF after execution
	}{
		{"load immediate", 0x61AB, 0, 0, 5, 0xAB, 5},
		{"add immediate", 0x7105, 0x10, 0, 5, 0x15, 5},
		{"add immediate wraps without flag", 0x7102, 0xFF, 0, 0, 0x01, 0},
		{"move", 0x8120, 0x10, 0x20, 5, 0x20, 5},
		{"or", 0x8121, 0xF0, 0x0F, 5, 0xFF, 5},
		{"and", 0x8122, 0xF3, 0x3F, 5, 0x33, 5},
		{"xor", 0x8123, 0xFF, 0x0F, 5, 0xF0, 5},
		{"add registers", 0x8124, 0x10, 0x20, 5, 0x30, 0},
		{"add registers carry", 0x8124, 0xFF, 0x02, 0, 0x01, 1},
		{"add registers exact overflow", 0x8124, 0x80, 0x80, 0, 0x00, 1},
		{"sub", 0x8125, 0x30, 0x10, 5, 0x20, 1},
		{"sub equal values", 0x8125, 0x30, 0x30, 5, 0x00, 1},
		{"sub borrow", 0x8125, 0x10, 0x30, 5, 0xE0, 0},
		{"shift right", 0x8126, 0x05, 0xFF, 5, 0x02, 1},
		{"shift right even", 0x8126, 0x04, 0xFF, 5, 0x02, 0},
		{"sub reverse", 0x8127, 0x10, 0x30, 5, 0x20, 1},
		{"sub reverse borrow", 0x8127, 0x30, 0x10, 5, 0xE0, 0},
		{"shift left", 0x812E, 0x81, 0x00, 5, 0x02, 1},
		{"shift left without carry", 0x812E, 0x41, 0x00, 5, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.v[1] = tt.vx
			m.v[2] = tt.vy
			m.v[FlagRegister] = tt.flag

			runSteps(t, m, 1)
			assert.Equal(t, tt.result, m.v[1])
			assert.Equal(t, tt.vf, m.v[FlagRegister])
			assert.Equal(t, tt.vy, m.v[2])
		})
	}
}

func TestAddRegisters_Property(t *testing.T) {
	for a := 0; a < 256; a += 5 {
		for b := 0; b < 256; b += 7 {
			m := newTestMachine(t, 0x8344) // add V3, V4
			m.v[3], m.v[4] = uint8(a), uint8(b)

			runSteps(t, m, 1)
			assert.Equal(t, uint8((a+b)%256), m.v[3])
			assert.Equal(t, boolToFlag(a+b >= 256), m.v[FlagRegister])
		}
	}
}

func TestSubRegisters_Property(t *testing.T) {
	for a := 0; a < 256; a += 5 {
		for b := 0; b < 256; b += 7 {
			m := newTestMachine(t, 0x8345) // sub V3, V4
			m.v[3], m.v[4] = uint8(a), uint8(b)

			runSteps(t, m, 1)
			assert.Equal(t, uint8(a-b), m.v[3])
			assert.Equal(t, boolToFlag(a >= b), m.v[FlagRegister])
		}
	}
}

func TestShift_Property(t *testing.T) {
	for value := range 256 {
		m := newTestMachine(t, 0x8306, 0x840E) // shr V3, shl V4
		m.v[3], m.v[4] = uint8(value), uint8(value)

		runSteps(t, m, 1)
		assert.Equal(t, uint8(value>>1), m.v[3])
		assert.Equal(t, uint8(value&1), m.v[FlagRegister])

		runSteps(t, m, 1)
		assert.Equal(t, uint8(value<<1), m.v[4])
		assert.Equal(t, uint8(value>>7&1), m.v[FlagRegister])
	}
}

// Instructions writing VX = VF report the flag, since VF is written last.
func TestFlagRegisterAsOperand(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		vf, vy   uint8
		expected uint8
	}{
		{"add carry", 0x8F14, 0xFF, 0x01, 1},
		{"add no carry", 0x8F14, 0x01, 0x01, 0},
		{"sub no borrow", 0x8F15, 0x05, 0x01, 1},
		{"sub borrow", 0x8F15, 0x01, 0x05, 0},
		{"shift right", 0x8F06, 0x02, 0x00, 0},
		{"shift left", 0x8F0E, 0x80, 0x00, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.v[FlagRegister] = tt.vf
			m.v[1] = tt.vy

			runSteps(t, m, 1)
			assert.Equal(t, tt.expected, m.v[FlagRegister])
		})
	}
}

func TestLoadIndex(t *testing.T) {
	m := newTestMachine(t, 0xA123)
	runSteps(t, m, 1)
	assert.Equal(t, uint16(0x123), m.State().Index)
}

func TestAddIndex(t *testing.T) {
	m := newTestMachine(t, 0xF51E, 0xF51E)
	m.index = 0xFFF0
	m.v[5] = 0x08
	m.v[FlagRegister] = 3

	runSteps(t, m, 1)
	assert.Equal(t, uint16(0xFFF8), m.index)

	runSteps(t, m, 1)
	assert.Equal(t, uint16(0x0000), m.index)
	assert.Equal(t, uint8(3), m.v[FlagRegister])
}

func TestRandom(t *testing.T) {
	m := newTestMachine(t, 0xC10F, 0xC200, 0xC0FF)

	runSteps(t, m, 3)
	assert.Equal(t, uint8(0), m.v[1]&0xF0)
	assert.Equal(t, uint8(0), m.v[2])
}

func TestRandom_Reproducible(t *testing.T) {
	run := func() [RegisterCount]uint8 {
		m := newTestMachine(t, 0xC0FF, 0xC1FF, 0xC2FF, 0xC3FF)
		runSteps(t, m, 4)
		return m.State().V
	}
	assert.Equal(t, run(), run())
}

func TestFontAddress(t *testing.T) {
	tests := []struct {
		value    uint8
		expected uint16
	}{
		{0x0, 0},
		{0x1, 5},
		{0xA, 50},
		{0xF, 75},
		{0x1A, 50}, // only the low nibble selects the glyph
	}

	for _, tt := range tests {
		m := newTestMachine(t, 0xF729)
		m.v[7] = tt.value

		runSteps(t, m, 1)
		assert.Equal(t, tt.expected, m.index)
	}
}

func TestStoreBCD(t *testing.T) {
	tests := []struct {
		value    uint8
		expected [3]byte
	}{
		{205, [3]byte{2, 0, 5}},
		{255, [3]byte{2, 5, 5}},
		{42, [3]byte{0, 4, 2}},
		{7, [3]byte{0, 0, 7}},
		{0, [3]byte{0, 0, 0}},
	}

	for _, tt := range tests {
		m := newTestMachine(t, 0xF333)
		m.index = 0x300
		m.v[3] = tt.value

		runSteps(t, m, 1)
		assert.Equal(t, tt.expected[:], m.memory[0x300:0x303])
		assert.Equal(t, uint16(0x300), m.index)
	}
}

func TestStoreBCD_OutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0xF333)
	m.index = MemorySize - 2

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, byte(0), m.memory[MemorySize-2])
}

func TestStoreRegisters(t *testing.T) {
	m := newTestMachine(t, 0xF255)
	m.index = 0x300
	m.v = [RegisterCount]uint8{1, 2, 3, 4, 5}

	runSteps(t, m, 1)
	assert.Equal(t, []byte{1, 2, 3, 0}, m.memory[0x300:0x304])
	assert.Equal(t, uint16(0x300), m.index)
}

func TestLoadRegisters(t *testing.T) {
	m := newTestMachine(t, 0xF265)
	m.index = 0x300
	copy(m.memory[0x300:], []byte{9, 8, 7, 6})
	m.v[3] = 0x55

	runSteps(t, m, 1)
	assert.Equal(t, [RegisterCount]uint8{9, 8, 7, 0x55}, m.v)
	assert.Equal(t, uint16(0x300), m.index)
}

func TestStoreLoadRegisters_AllRegisters(t *testing.T) {
	m := newTestMachine(t, 0xFF55, 0x00E0, 0xFF65)
	m.index = 0x400
	for i := range m.v {
		m.v[i] = uint8(i * 3)
	}
	expected := m.v

	runSteps(t, m, 1)
	m.v = [RegisterCount]uint8{}
	runSteps(t, m, 2)

	assert.Equal(t, expected, m.v)
}

func TestStoreRegisters_OutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0xF355)
	m.index = MemorySize - 3

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, byte(0), m.memory[MemorySize-3])

	m = newTestMachine(t, 0xF365)
	m.index = MemorySize - 3
	err = m.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
}

func TestTimerInstructions(t *testing.T) {
	m := newTestMachine(t,
		0xF115, // ld DT, V1
		0xF218, // ld ST, V2
		0xF307, // ld V3, DT
	)
	m.v[1] = 30
	m.v[2] = 20

	runSteps(t, m, 2)
	state := m.State()
	assert.Equal(t, uint8(30), state.DelayTimer)
	assert.Equal(t, uint8(20), state.SoundTimer)
	assert.True(t, m.SoundActive())

	m.TickTimers()
	runSteps(t, m, 1)
	assert.Equal(t, uint8(29), m.v[3])
}

func TestWaitKey(t *testing.T) {
	m := newTestMachine(t, 0xF50A, 0x1202)

	for range 10 {
		runSteps(t, m, 1)
		assert.Equal(t, uint16(ProgramStart), m.State().PC)
	}
	assert.Equal(t, uint8(0), m.v[5])

	assert.NoError(t, m.SetKey(0xC, true))
	assert.NoError(t, m.SetKey(0x9, true))
	runSteps(t, m, 1)

	assert.Equal(t, uint8(0x9), m.v[5])
	assert.Equal(t, uint16(ProgramStart+2), m.State().PC)
}

func TestWaitKey_TimersKeepRunning(t *testing.T) {
	m := newTestMachine(t, 0xF00A)
	m.delayTimer = 3

	for range 3 {
		runSteps(t, m, 1)
		m.TickTimers()
	}
	assert.Equal(t, uint8(0), m.delayTimer)
	assert.Equal(t, uint16(ProgramStart), m.pc)
}

func TestSkipKey_InvalidKey(t *testing.T) {
	for _, word := range []uint16{0xE19E, 0xE1A1} {
		m := newTestMachine(t, word)
		m.v[1] = KeyCount

		err := m.Step()
		assert.True(t, errors.Is(err, ErrInvalidKey))
	}
}

// glyphZero is the first row of the font glyph 0 at address 0.
const glyphZero = 0xF0

func TestDraw(t *testing.T) {
	m := newTestMachine(t, 0xD125) // drw V1, V2, 5
	m.index = FontAddress
	m.v[1], m.v[2] = 10, 4

	runSteps(t, m, 1)

	d := m.Display()
	// glyph 0: a 4x5 box with a hollow middle
	for column := range 4 {
		assert.True(t, d.Pixel(10+column, 4))
		assert.True(t, d.Pixel(10+column, 8))
	}
	assert.True(t, d.Pixel(10, 6))
	assert.False(t, d.Pixel(11, 6))
	assert.True(t, d.Pixel(13, 6))
	assert.False(t, d.Pixel(14, 4))
	assert.Equal(t, 14, d.Lit())
	assert.Equal(t, uint8(0), m.v[FlagRegister])
}

func TestDraw_TwiceRestoresDisplay(t *testing.T) {
	m := newTestMachine(t, 0xD125, 0xD125)
	m.index = FontAddress + 8*FontGlyphSize
	m.v[1], m.v[2] = 60, 30
	m.display[0] = true
	before := *m.Display()

	runSteps(t, m, 1)
	assert.Equal(t, uint8(0), m.v[FlagRegister])

	runSteps(t, m, 1)
	assert.Equal(t, uint8(1), m.v[FlagRegister])
	assert.Equal(t, before, *m.Display())
}

func TestDraw_Collision(t *testing.T) {
	m := newTestMachine(t, 0xD011)
	m.index = 0x300
	m.memory[0x300] = 0x80
	m.display[0] = true
	m.display[1] = true

	runSteps(t, m, 1)
	assert.Equal(t, uint8(1), m.v[FlagRegister])
	assert.False(t, m.Display().Pixel(0, 0))
	assert.True(t, m.Display().Pixel(1, 0))
}

func TestDraw_NoCollisionWhenOnlySettingPixels(t *testing.T) {
	m := newTestMachine(t, 0xD011)
	m.index = 0x300
	m.memory[0x300] = 0x80
	m.display[1] = true
	m.v[FlagRegister] = 1

	runSteps(t, m, 1)
	assert.Equal(t, uint8(0), m.v[FlagRegister])
	assert.True(t, m.Display().Pixel(0, 0))
	assert.True(t, m.Display().Pixel(1, 0))
}

func TestDraw_WrapsHorizontally(t *testing.T) {
	m := newTestMachine(t, 0xD121)
	m.index = 0x300
	m.memory[0x300] = 0xE0 // 3 leftmost pixels
	m.v[1], m.v[2] = Width-1, 3

	runSteps(t, m, 1)

	d := m.Display()
	assert.True(t, d.Pixel(Width-1, 3))
	assert.True(t, d.Pixel(0, 3))
	assert.True(t, d.Pixel(1, 3))
	assert.Equal(t, 3, d.Lit())
}

func TestDraw_WrapsVertically(t *testing.T) {
	m := newTestMachine(t, 0xD123)
	m.index = 0x300
	copy(m.memory[0x300:], []byte{0x80, 0x80, 0x80})
	m.v[1], m.v[2] = 5, Height-1

	runSteps(t, m, 1)

	d := m.Display()
	assert.True(t, d.Pixel(5, Height-1))
	assert.True(t, d.Pixel(5, 0))
	assert.True(t, d.Pixel(5, 1))
	assert.Equal(t, 3, d.Lit())
}

func TestDraw_CoordinatesWrapBeforeDrawing(t *testing.T) {
	m := newTestMachine(t, 0xD121)
	m.index = 0x300
	m.memory[0x300] = 0x80
	m.v[1], m.v[2] = Width+2, Height+1

	runSteps(t, m, 1)
	assert.True(t, m.Display().Pixel(2, 1))
}

func TestDraw_FlagRegisterAsCoordinate(t *testing.T) {
	m := newTestMachine(t, 0xDF01)
	m.index = 0x300
	m.memory[0x300] = 0x80
	m.v[FlagRegister] = 7

	runSteps(t, m, 1)
	assert.True(t, m.Display().Pixel(7, 0))
	assert.Equal(t, uint8(0), m.v[FlagRegister])
}

func TestDraw_ZeroRows(t *testing.T) {
	m := newTestMachine(t, 0xD120)
	m.index = 0xFFFF
	m.v[FlagRegister] = 1

	runSteps(t, m, 1)
	assert.Equal(t, 0, m.Display().Lit())
	assert.Equal(t, uint8(0), m.v[FlagRegister])
}

func TestDraw_OutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0xD125)
	m.index = MemorySize - 4

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, 0, m.Display().Lit())
}

func TestDraw_UsesFontGlyph(t *testing.T) {
	m := newTestMachine(t, 0xF029, 0xD011)
	m.v[0] = 0

	runSteps(t, m, 2)
	assert.Equal(t, glyphZero, int(m.memory[m.index]))
	assert.Equal(t, 4, m.Display().Lit())
}

func boolToFlag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
