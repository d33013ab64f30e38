package emulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/audio"
	"github.com/retroenv/sipeit/internal/cpu"
	"github.com/retroenv/sipeit/internal/frontend/headless"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/system"
)

// fakeClock advances only when the emulator sleeps.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// scriptedFrontend injects events at given poll numbers, counted from 1.
type scriptedFrontend struct {
	*headless.Frontend
	polls  int
	script map[int][]input.Event
}

func (f *scriptedFrontend) Poll() ([]input.Event, bool, error) {
	f.polls++
	f.Inject(f.script[f.polls]...)
	return f.Frontend.Poll()
}

// recordingSink remembers every beeper state update.
type recordingSink struct {
	states []bool
	closed bool
}

func (s *recordingSink) Update(active bool, _ time.Duration) {
	s.states = append(s.states, active)
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

type testSetup struct {
	machine  *system.System
	frontend *headless.Frontend
	clock    *fakeClock
}

func newTestEmulator(t *testing.T, program []byte, fe func(*headless.Frontend) *scriptedFrontend,
	sinks []audio.Sink, opts Options) (*Emulator, testSetup) {

	t.Helper()
	logger := log.NewTestLogger(t)

	machine := system.New(logger, system.Config{Seed: 1})
	assert.NoError(t, machine.Load(program))

	setup := testSetup{
		machine:  machine,
		frontend: headless.New(logger),
		clock:    &fakeClock{now: time.Unix(0, 0)},
	}

	var front scriptedFrontend
	if fe != nil {
		front = *fe(setup.frontend)
	} else {
		front = scriptedFrontend{Frontend: setup.frontend}
	}

	e := New(logger, machine, &front, sinks, opts)
	e.now = setup.clock.Now
	e.sleep = setup.clock.Sleep
	return e, setup
}

// jump to self
var idleLoop = []byte{0x12, 0x00}

func TestRun_CycleLimit(t *testing.T) {
	e, setup := newTestEmulator(t, idleLoop, nil, nil, Options{Cycles: 100})

	assert.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(100), e.Cycles())

	// 99 waits of 2 ms between the instructions
	assert.Equal(t, 198*time.Millisecond, setup.clock.slept)
	assert.Equal(t, 12, setup.frontend.Frames())
	assert.Equal(t, uint64(12), e.Frames())
}

func TestRun_CPUHz(t *testing.T) {
	e, setup := newTestEmulator(t, idleLoop, nil, nil, Options{CPUHz: 1000, Cycles: 11})

	assert.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 10*time.Millisecond, setup.clock.slept)
}

func TestRun_ExecutionError(t *testing.T) {
	program := []byte{
		0x60, 0x01, // v0 = 1
		0x80, 0x08, // invalid
	}
	e, _ := newTestEmulator(t, program, nil, nil, Options{})

	err := e.Run(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, cpu.ErrInvalidInstruction))

	var execErr *cpu.ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x8008), execErr.Instruction)
	assert.Equal(t, 2, execErr.Offset)
	assert.Equal(t, uint64(1), e.Cycles())
}

func TestRun_Quit(t *testing.T) {
	e, setup := newTestEmulator(t, idleLoop, nil, nil, Options{})
	setup.frontend.RequestQuit()

	assert.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(0), e.Cycles())
}

func TestRun_ContextCancelled(t *testing.T) {
	e, _ := newTestEmulator(t, idleLoop, nil, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, e.Run(ctx))
	assert.Equal(t, uint64(0), e.Cycles())
}

func TestRun_KeyResumesWait(t *testing.T) {
	program := []byte{
		0xF3, 0x0A, // wait for key into v3
		0x61, 0x01, // v1 = 1
		0x12, 0x04, // jump to self
	}
	script := func(f *headless.Frontend) *scriptedFrontend {
		return &scriptedFrontend{
			Frontend: f,
			script: map[int][]input.Event{
				2: {{Key: 0xB, Down: true}},
				3: {{Key: 0xB}},
			},
		}
	}
	e, setup := newTestEmulator(t, program, script, nil, Options{Cycles: 50})

	assert.NoError(t, e.Run(context.Background()))
	regs := setup.machine.Registers()
	assert.Equal(t, uint8(0xB), regs.V[3])
	assert.Equal(t, uint8(1), regs.V[1])
	assert.Equal(t, uint16(0x204), regs.PC)
	assert.False(t, setup.machine.WaitingForKey())
}

func TestRun_InvalidInputEvent(t *testing.T) {
	script := func(f *headless.Frontend) *scriptedFrontend {
		return &scriptedFrontend{
			Frontend: f,
			script:   map[int][]input.Event{1: {{Key: 0x10, Down: true}}},
		}
	}
	e, _ := newTestEmulator(t, idleLoop, script, nil, Options{})

	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, input.ErrInvalidKey))
}

func TestRun_Timers(t *testing.T) {
	program := []byte{
		0x60, 0xFF, // v0 = 255
		0xF0, 0x15, // delay = v0
		0x12, 0x04, // jump to self
	}
	e, setup := newTestEmulator(t, program, nil, nil, Options{Cycles: 52})

	assert.NoError(t, e.Run(context.Background()))
	// every 2 ms step covers more than one 600 Hz interval and ticks once,
	// starting with the step that set the timer
	assert.Equal(t, uint8(255-51), setup.machine.DelayTimer())
}

func TestRun_SoundSinks(t *testing.T) {
	program := []byte{
		0x60, 0x30, // v0 = 48
		0xF0, 0x18, // sound = v0
		0x12, 0x04, // jump to self
	}
	sink := &recordingSink{}
	e, _ := newTestEmulator(t, program, nil, []audio.Sink{sink}, Options{Cycles: 200})

	assert.NoError(t, e.Run(context.Background()))
	assert.Equal(t, int(e.Frames()), len(sink.states))
	assert.False(t, sink.states[0])
	assert.True(t, sink.states[1])
	assert.False(t, sink.states[len(sink.states)-1])
	assert.False(t, sink.closed)
}
