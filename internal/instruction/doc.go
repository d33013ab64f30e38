// Package instruction decodes CHIP-8 instruction words.
//
// # Encoding
//
// Every instruction is a big endian 16 bit word. The top nibble selects the
// opcode family, the remaining 12 bits hold the operands:
//
//	F X Y N
//	| | | +-- n:   4 bit constant (sprite rows, arithmetic sub operation)
//	| | +---- y:   register index
//	| +------ x:   register index
//	+-------- opcode family
//
//	nn:  low 8 bits, constant byte
//	nnn: low 12 bits, memory address
//
// # Usage Example
//
//	ins := instruction.Decode(0x8014)
//	// ins.Family == instruction.Arithmetic, ins.X == 0, ins.Y == 1, ins.N == 4
//	logger.Debug("exec", log.Stringer("instruction", ins))
//
// Decoding never fails, every word produces a value. Whether the operand
// combination is a defined instruction is decided when it is executed.
package instruction
