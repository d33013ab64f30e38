package cpu

import (
	"github.com/retroenv/sipeit/internal/instruction"
	"github.com/retroenv/sipeit/internal/memory"
)

// handler executes a decoded instruction and updates the program counter.
type handler func(c *CPU, ins instruction.Instruction) error

// handlers maps every opcode family to its handler.
var handlers = [16]handler{
	instruction.System:       (*CPU).system,
	instruction.Jump:         (*CPU).jump,
	instruction.Call:         (*CPU).call,
	instruction.SkipEqual:    (*CPU).skipEqual,
	instruction.SkipNotEqual: (*CPU).skipNotEqual,
	instruction.SkipRegEqual: (*CPU).skipRegEqual,
	instruction.LoadByte:     (*CPU).loadByte,
	instruction.AddByte:      (*CPU).addByte,
	instruction.Arithmetic:   (*CPU).arithmetic,
	instruction.SkipRegNotEq: (*CPU).skipRegNotEqual,
	instruction.LoadIndex:    (*CPU).loadIndex,
	instruction.JumpOffset:   (*CPU).jumpOffset,
	instruction.Random:       (*CPU).random,
	instruction.Draw:         (*CPU).draw,
	instruction.Key:          (*CPU).key,
	instruction.Misc:         (*CPU).misc,
}

// system handles 00E0 (clear display) and 00EE (return from subroutine).
func (c *CPU) system(ins instruction.Instruction) error {
	switch ins.NNN {
	case 0x0E0:
		c.display.Clear()
		c.next()
		return nil

	case 0x0EE:
		address, err := c.stack.Pop()
		if err != nil {
			return err
		}
		c.PC = address
		return nil

	default:
		return ErrInvalidInstruction
	}
}

func (c *CPU) jump(ins instruction.Instruction) error {
	c.PC = ins.NNN
	return nil
}

func (c *CPU) call(ins instruction.Instruction) error {
	if err := c.stack.Push(c.PC + instruction.Size); err != nil {
		return err
	}
	c.PC = ins.NNN
	return nil
}

func (c *CPU) skipEqual(ins instruction.Instruction) error {
	c.skipIf(c.V[ins.X] == ins.NN)
	return nil
}

func (c *CPU) skipNotEqual(ins instruction.Instruction) error {
	c.skipIf(c.V[ins.X] != ins.NN)
	return nil
}

func (c *CPU) skipRegEqual(ins instruction.Instruction) error {
	c.skipIf(c.V[ins.X] == c.V[ins.Y])
	return nil
}

func (c *CPU) skipRegNotEqual(ins instruction.Instruction) error {
	c.skipIf(c.V[ins.X] != c.V[ins.Y])
	return nil
}

func (c *CPU) loadByte(ins instruction.Instruction) error {
	c.V[ins.X] = ins.NN
	c.next()
	return nil
}

func (c *CPU) addByte(ins instruction.Instruction) error {
	c.V[ins.X] += ins.NN
	c.next()
	return nil
}

func (c *CPU) loadIndex(ins instruction.Instruction) error {
	c.I = ins.NNN
	c.next()
	return nil
}

func (c *CPU) jumpOffset(ins instruction.Instruction) error {
	c.PC = uint16(c.V[0]) + ins.NNN
	return nil
}

func (c *CPU) random(ins instruction.Instruction) error {
	c.V[ins.X] = uint8(c.rng.Uint32()) & ins.NN
	c.next()
	return nil
}

// draw composites n sprite rows read from I at (Vx, Vy). VF is set if any
// lit pixel was turned off.
func (c *CPU) draw(ins instruction.Instruction) error {
	sprite := c.memory.ReadBlock(c.I, int(ins.N))
	collision := c.display.Draw(c.V[ins.X], c.V[ins.Y], sprite)
	c.setFlag(collision)
	c.next()
	return nil
}

// key handles Ex9E (skip if key Vx is down) and ExA1 (skip if key Vx is up).
func (c *CPU) key(ins instruction.Instruction) error {
	switch ins.NN {
	case 0x9E:
		c.skipIf(c.keys.IsDown(c.V[ins.X]))
	case 0xA1:
		c.skipIf(!c.keys.IsDown(c.V[ins.X]))
	default:
		return ErrInvalidInstruction
	}
	return nil
}

// misc handles the Fxnn timer, key wait and memory transfer instructions.
func (c *CPU) misc(ins instruction.Instruction) error {
	x := ins.X

	switch ins.NN {
	case 0x07:
		c.V[x] = c.timers.Delay()
	case 0x0A:
		c.keys.Wait(x)
	case 0x15:
		c.timers.SetDelay(c.V[x])
	case 0x18:
		c.timers.SetSound(c.V[x])
	case 0x1E:
		c.I += uint16(c.V[x])
	case 0x29:
		c.I = memory.GlyphAddress(c.V[x])
	case 0x33:
		value := c.V[x]
		c.memory.Write(c.I, value/100)
		c.memory.Write(c.I+1, value/10%10)
		c.memory.Write(c.I+2, value%10)
	case 0x55:
		for i := range uint16(x) + 1 {
			c.memory.Write(c.I+i, c.V[i])
		}
	case 0x65:
		for i := range uint16(x) + 1 {
			c.V[i] = c.memory.Read(c.I + i)
		}
	default:
		return ErrInvalidInstruction
	}

	c.next()
	return nil
}
