// Package system composes the machine components into a single virtual machine.
package system

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/cpu"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/memory"
	"github.com/retroenv/sipeit/internal/timer"
)

// Config contains the settings of a virtual machine.
type Config struct {
	Seed    uint64 // random generator seed, 0 selects a time based seed
	TimerHz int    // timer decrement rate, 0 selects timer.DefaultHz
	Trace   bool   // log every executed instruction
}

// System is a complete virtual machine. It holds no global state, so any
// number of instances can coexist.
type System struct {
	logger *log.Logger

	memory  *memory.Memory
	display *display.Buffer
	timers  *timer.Unit
	keys    *input.Latch
	cpu     *cpu.CPU

	seed uint64
}

// New returns a new virtual machine in its initial state.
func New(logger *log.Logger, cfg Config) *System {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &System{
		logger:  logger,
		memory:  memory.New(),
		display: display.New(),
		timers:  timer.New(cfg.TimerHz),
		keys:    input.New(),
		seed:    seed,
	}

	s.cpu = cpu.New(logger, cpu.Dependencies{
		Memory:  s.memory,
		Display: s.display,
		Timers:  s.timers,
		Keys:    s.keys,
		Random:  rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
	})
	s.cpu.SetTrace(cfg.Trace)
	return s
}

// Load resets the machine and copies the program image to the program offset.
// An image that does not fit leaves the machine untouched.
func (s *System) Load(program []byte) error {
	if len(program) > memory.MaxProgramSize {
		return fmt.Errorf("loading program: %w: %d bytes, maximum is %d bytes",
			memory.ErrProgramTooLarge, len(program), memory.MaxProgramSize)
	}

	s.Reset()
	if err := s.memory.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	s.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", uint16(memory.ProgramOffset)))
	return nil
}

// Reset returns every component to its initial state. The program image is erased.
func (s *System) Reset() {
	s.memory.Reset()
	s.display.Clear()
	s.timers.Reset()
	s.keys.Reset()
	s.cpu.Reset()
}

// Step executes at most one instruction.
func (s *System) Step() error {
	return s.cpu.Step()
}

// TickTimers accounts the elapsed real time to the timers.
func (s *System) TickTimers(elapsed time.Duration) {
	s.timers.Tick(elapsed)
}

// KeyDown marks a key as pressed and resumes a pending wait for a key press.
func (s *System) KeyDown(key uint8) error {
	if err := s.cpu.KeyDown(key); err != nil {
		return fmt.Errorf("pressing key: %w", err)
	}
	return nil
}

// KeyUp marks a key as released.
func (s *System) KeyUp(key uint8) error {
	if err := s.cpu.KeyUp(key); err != nil {
		return fmt.Errorf("releasing key: %w", err)
	}
	return nil
}

// Apply forwards a host input event to the machine.
func (s *System) Apply(event input.Event) error {
	if event.Down {
		return s.KeyDown(event.Key)
	}
	return s.KeyUp(event.Key)
}

// Display returns the display buffer for rendering.
func (s *System) Display() *display.Buffer {
	return s.display
}

// SoundTimer returns the sound timer value. The beeper sounds while it is not zero.
func (s *System) SoundTimer() uint8 {
	return s.timers.Sound()
}

// DelayTimer returns the delay timer value.
func (s *System) DelayTimer() uint8 {
	return s.timers.Delay()
}

// Registers returns a copy of the register file.
func (s *System) Registers() cpu.Registers {
	return s.cpu.State()
}

// StackDepth returns the number of active subroutine calls.
func (s *System) StackDepth() int {
	return s.cpu.StackDepth()
}

// WaitingForKey returns whether execution is suspended until a key is pressed.
func (s *System) WaitingForKey() bool {
	return s.keys.Waiting()
}

// Memory returns the byte at the given address.
func (s *System) Memory(address uint16) byte {
	return s.memory.Read(address)
}

// Seed returns the seed of the random generator, to reproduce a run.
func (s *System) Seed() uint64 {
	return s.seed
}
