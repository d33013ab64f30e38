package cpu

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/memory"
	"github.com/retroenv/sipeit/internal/timer"
)

type testMachine struct {
	*CPU

	memory  *memory.Memory
	display *display.Buffer
	timers  *timer.Unit
	keys    *input.Latch
}

func newTestMachine(t *testing.T, program ...uint16) *testMachine {
	t.Helper()

	m := &testMachine{
		memory:  memory.New(),
		display: display.New(),
		timers:  timer.New(timer.DefaultHz),
		keys:    input.New(),
	}
	m.CPU = New(log.NewTestLogger(t), Dependencies{
		Memory:  m.memory,
		Display: m.display,
		Timers:  m.timers,
		Keys:    m.keys,
		Random:  rand.New(rand.NewPCG(1, 2)),
	})
	m.SetTrace(true)

	data := make([]byte, 0, 2*len(program))
	for _, word := range program {
		data = append(data, byte(word>>8), byte(word))
	}
	assert.NoError(t, m.memory.Load(data))
	return m
}

func (m *testMachine) step(t *testing.T, count int) {
	t.Helper()
	for range count {
		assert.NoError(t, m.Step())
	}
}

func TestNew_InitialState(t *testing.T) {
	m := newTestMachine(t)

	state := m.State()
	assert.Equal(t, uint16(memory.ProgramOffset), state.PC)
	assert.Equal(t, uint16(0), state.I)
	assert.Equal(t, [16]uint8{}, state.V)
	assert.Equal(t, 0, m.StackDepth())
}

func TestStep_ZeroInstructionIsNoOp(t *testing.T) {
	m := newTestMachine(t, 0x0000)
	before := m.State()

	m.step(t, 3)
	assert.Equal(t, before, m.State())
}

func TestStep_ProgramScenario(t *testing.T) {
	m := newTestMachine(t, 0x600A, 0x6105, 0x8014, 0x0000)

	m.step(t, 3)
	assert.Equal(t, uint8(15), m.V[0])
	assert.Equal(t, uint8(5), m.V[1])
	assert.Equal(t, uint8(0), m.V[0xF])

	pc := m.PC
	m.step(t, 1)
	assert.Equal(t, pc, m.PC)
	assert.Equal(t, uint8(15), m.V[0])
}

func TestStep_Jump(t *testing.T) {
	for _, target := range []uint16{0x000, 0x200, 0x2A4, 0x7FF, 0xFFF} {
		m := newTestMachine(t, 0x1000|target)
		before := m.State()

		m.step(t, 1)

		want := before
		want.PC = target
		assert.Equal(t, want, m.State())
		assert.Equal(t, 0, m.display.Lit())
	}
}

func TestStep_CallAndReturn(t *testing.T) {
	m := newTestMachine(t,
		0x2206, // 200: call 206
		0x6001, // 202: v0 = 1
		0x1204, // 204: jump 204
		0x6102, // 206: v1 = 2
		0x00EE, // 208: return
	)

	m.step(t, 1)
	assert.Equal(t, uint16(0x206), m.PC)
	assert.Equal(t, 1, m.StackDepth())

	m.step(t, 2)
	assert.Equal(t, uint16(0x202), m.PC)
	assert.Equal(t, 0, m.StackDepth())

	m.step(t, 1)
	assert.Equal(t, uint8(1), m.V[0])
	assert.Equal(t, uint8(2), m.V[1])
}

func TestStep_StackOverflow(t *testing.T) {
	// every instruction calls the next one
	program := make([]uint16, StackDepth+1)
	for i := range program {
		program[i] = 0x2000 | uint16(memory.ProgramOffset+2*(i+1))
	}
	m := newTestMachine(t, program...)

	m.step(t, StackDepth)
	assert.Equal(t, StackDepth, m.StackDepth())

	pc := m.PC
	err := m.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, pc, m.PC)
	assert.Equal(t, StackDepth, m.StackDepth())

	var execErr *ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, pc, execErr.Address)
	assert.Equal(t, 2*StackDepth, execErr.Offset)
}

func TestStep_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(memory.ProgramOffset), m.PC)
}

func TestStep_Skips(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		vx, vy uint8
		skip   bool
	}{
		{"3xnn equal", 0x3142, 0x42, 0, true},
		{"3xnn not equal", 0x3142, 0x41, 0, false},
		{"4xnn not equal", 0x4142, 0x41, 0, true},
		{"4xnn equal", 0x4142, 0x42, 0, false},
		{"5xy0 equal", 0x5120, 7, 7, true},
		{"5xy0 not equal", 0x5120, 7, 8, false},
		{"9xy0 not equal", 0x9120, 7, 8, true},
		{"9xy0 equal", 0x9120, 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.V[1] = tt.vx
			m.V[2] = tt.vy

			m.step(t, 1)

			want := uint16(memory.ProgramOffset + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, m.PC)
		})
	}
}

func TestStep_LoadAndAddByte(t *testing.T) {
	m := newTestMachine(t, 0x6AFE, 0x7A03, 0x7B01)

	m.step(t, 3)
	assert.Equal(t, uint8(0x01), m.V[0xA])
	assert.Equal(t, uint8(0x01), m.V[0xB])
	// 7xnn never touches the flag
	assert.Equal(t, uint8(0), m.V[0xF])
}

func TestStep_LoadIndexAndJumpOffset(t *testing.T) {
	m := newTestMachine(t, 0xA123, 0xB300)
	m.V[0] = 0x10

	m.step(t, 2)
	assert.Equal(t, uint16(0x123), m.I)
	assert.Equal(t, uint16(0x310), m.PC)
}

func TestStep_Random(t *testing.T) {
	m := newTestMachine(t, 0xC00F, 0xC100)
	m.V[1] = 0xFF

	m.step(t, 2)
	assert.Equal(t, uint8(0), m.V[0]&0xF0)
	assert.Equal(t, uint8(0), m.V[1])
}

func TestStep_InvalidInstructions(t *testing.T) {
	words := []uint16{0x0123, 0x00E1, 0x8008, 0x800F, 0xE000, 0xE19F, 0xF000, 0xF0FF}

	for _, word := range words {
		m := newTestMachine(t, 0x6001, word)
		m.step(t, 1)

		err := m.Step()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInstruction))

		var execErr *ExecutionError
		assert.True(t, errors.As(err, &execErr))
		assert.Equal(t, word, execErr.Instruction)
		assert.Equal(t, uint16(memory.ProgramOffset+2), execErr.Address)
		assert.Equal(t, 2, execErr.Offset)
		assert.Equal(t, uint16(memory.ProgramOffset+2), m.PC)
	}
}

func TestExecutionError_Error(t *testing.T) {
	err := newExecutionError(ErrInvalidInstruction, 0x8008, 0x204)
	assert.Equal(t, "invalid instruction (8008) at offset 4 [address $204]", err.Error())
}

func TestStep_ClearDisplay(t *testing.T) {
	m := newTestMachine(t, 0x00E0)
	m.display.Draw(0, 0, []byte{0xFF})

	m.step(t, 1)
	assert.Equal(t, 0, m.display.Lit())
	assert.Equal(t, uint16(memory.ProgramOffset+2), m.PC)
}
