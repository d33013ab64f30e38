package cpu

import "github.com/retroenv/sipeit/internal/instruction"

// arithmetic handles the 8xyo register operations, selected by the low nibble.
//
// The subtraction flag is set when a borrow occurred, and 8xy7 subtracts Vy
// from Vx like 8xy5 does. The flag is written after the result, so it wins
// when x is VF. Shifts capture the low bit before shifting, also for 8xyE.
func (c *CPU) arithmetic(ins instruction.Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.N {
	case 0x0:
		c.V[x] = c.V[y]
	case 0x1:
		c.V[x] |= c.V[y]
	case 0x2:
		c.V[x] &= c.V[y]
	case 0x3:
		c.V[x] ^= c.V[y]
	case 0x4:
		sum := uint16(c.V[x]) + uint16(c.V[y])
		c.V[x] = uint8(sum)
		c.setFlag(sum > 0xFF)
	case 0x5, 0x7:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vx - vy
		c.setFlag(vx < vy)
	case 0x6:
		c.V[FlagRegister] = c.V[x] & 1
		c.V[x] >>= 1
	case 0xE:
		c.V[FlagRegister] = c.V[x] & 1
		c.V[x] <<= 1
	default:
		return ErrInvalidInstruction
	}

	c.next()
	return nil
}
