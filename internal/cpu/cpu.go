// Package cpu provides the register file and the fetch-decode-execute engine.
package cpu

import (
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/instruction"
	"github.com/retroenv/sipeit/internal/memory"
	"github.com/retroenv/sipeit/internal/timer"
)

// FlagRegister is the index of VF, which arithmetic, shift and draw
// instructions overwrite as a side effect.
const FlagRegister = 0xF

// Registers contains the register file.
type Registers struct {
	V  [16]uint8 // general purpose registers V0-VF
	I  uint16    // address register
	PC uint16    // program counter
}

// CPU executes instructions against the machine components it is connected to.
type CPU struct {
	Registers

	stack Stack

	logger  *log.Logger
	memory  *memory.Memory
	display *display.Buffer
	timers  *timer.Unit
	keys    *input.Latch
	rng     *rand.Rand
	trace   bool
}

// Dependencies contains the machine components that the CPU operates on.
type Dependencies struct {
	Memory  *memory.Memory
	Display *display.Buffer
	Timers  *timer.Unit
	Keys    *input.Latch
	Random  *rand.Rand
}

// New returns a new CPU connected to the given components, with the program
// counter at the program start.
func New(logger *log.Logger, deps Dependencies) *CPU {
	c := &CPU{
		logger:  logger,
		memory:  deps.Memory,
		display: deps.Display,
		timers:  deps.Timers,
		keys:    deps.Keys,
		rng:     deps.Random,
	}
	c.Reset()
	return c
}

// SetTrace enables debug logging of every executed instruction.
func (c *CPU) SetTrace(enabled bool) {
	c.trace = enabled
}

// Reset clears all registers and the stack and sets the program counter to the program start.
func (c *CPU) Reset() {
	c.Registers = Registers{PC: memory.ProgramOffset}
	c.stack.Reset()
}

// State returns a copy of the register file.
func (c *CPU) State() Registers {
	return c.Registers
}

// StackDepth returns the number of active subroutine calls.
func (c *CPU) StackDepth() int {
	return c.stack.Depth()
}

// Step executes at most one instruction. It does nothing while waiting for a
// key press or if the fetched instruction word is zero. Failures are returned
// as *ExecutionError and leave the program counter at the failing instruction.
func (c *CPU) Step() error {
	if c.keys.Waiting() {
		return nil
	}

	address := c.PC
	word := c.memory.ReadWord(address)
	if word == 0 {
		return nil
	}

	ins := instruction.Decode(word)
	if c.trace {
		c.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.Stringer("instruction", ins))
	}

	if err := handlers[ins.Family](c, ins); err != nil {
		return newExecutionError(err, word, address)
	}
	return nil
}

// KeyDown marks the key as pressed. A pending wait for a key press ends with
// the key code assigned to the waiting register.
func (c *CPU) KeyDown(key uint8) error {
	target, resumed, err := c.keys.Press(key)
	if err != nil {
		return err
	}
	if resumed {
		c.V[target] = key
	}
	return nil
}

// KeyUp marks the key as released.
func (c *CPU) KeyUp(key uint8) error {
	return c.keys.Release(key)
}

// next advances the program counter to the following instruction.
func (c *CPU) next() {
	c.PC += instruction.Size
}

// skipIf advances the program counter past the following instruction if the
// condition is true, otherwise to it.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.PC += instruction.Size
	}
	c.next()
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.V[FlagRegister] = 1
	} else {
		c.V[FlagRegister] = 0
	}
}
