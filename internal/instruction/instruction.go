package instruction

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Size is the size of an instruction in bytes.
const Size = 2

// Family is the opcode family selected by the top 4 bits of an instruction word.
type Family uint8

// Opcode families.
const (
	System       Family = 0x0 // 00E0 clear display, 00EE return
	Jump         Family = 0x1 // 1nnn
	Call         Family = 0x2 // 2nnn
	SkipEqual    Family = 0x3 // 3xnn
	SkipNotEqual Family = 0x4 // 4xnn
	SkipRegEqual Family = 0x5 // 5xy0
	LoadByte     Family = 0x6 // 6xnn
	AddByte      Family = 0x7 // 7xnn
	Arithmetic   Family = 0x8 // 8xyo
	SkipRegNotEq Family = 0x9 // 9xy0
	LoadIndex    Family = 0xA // Annn
	JumpOffset   Family = 0xB // Bnnn
	Random       Family = 0xC // Cxnn
	Draw         Family = 0xD // Dxyn
	Key          Family = 0xE // Ex9E, ExA1
	Misc         Family = 0xF // Fxoo
)

// Instruction is a decoded instruction word. All operand fields are always
// extracted, it depends on the family which of them are meaningful.
type Instruction struct {
	Word   uint16
	Family Family
	X      uint8  // register index, bits 8-11
	Y      uint8  // register index, bits 4-7
	N      uint8  // low 4 bits
	NN     uint8  // low 8 bits
	NNN    uint16 // low 12 bits
}

// Decode splits the instruction word into its opcode family and operand fields.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Family: Family(word >> 12),
		X:      uint8(word>>8) & 0x0F,
		Y:      uint8(word>>4) & 0x0F,
		N:      uint8(word) & 0x0F,
		NN:     uint8(word),
		NNN:    word & 0x0FFF,
	}
}

// Name returns the assembler mnemonic of the instruction or an empty string if
// the word does not encode a known instruction.
func (i Instruction) Name() string {
	opcode, ok := lookup(i.Word)
	if !ok {
		return ""
	}
	return opcode.Instruction.Name
}

// String returns the instruction word in hex followed by its mnemonic.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		name = "???"
	}
	return fmt.Sprintf("%04X %s", i.Word, name)
}

// lookup finds the opcode table entry matching the instruction word.
func lookup(word uint16) (chip8.Opcode, bool) {
	opcodes := chip8.Opcodes[int(word>>12)]
	for _, op := range opcodes {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}
