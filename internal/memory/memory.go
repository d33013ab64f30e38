// Package memory provides the addressable byte memory of the virtual machine.
package memory

import (
	"errors"
	"fmt"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: built-in hex digit glyphs
//	0x050-0x1FF: unused interpreter area
//	0x200-0xFFF: program and scratch space
const (
	// Size is the total number of addressable bytes.
	Size = 0x1000

	// ProgramOffset is the address that programs are loaded to and start executing at.
	ProgramOffset = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = Size - ProgramOffset
)

// ErrProgramTooLarge is returned when a program image does not fit into memory.
var ErrProgramTooLarge = errors.New("program too large")

// Memory is the fixed size byte memory. All accesses wrap around the memory size,
// so no instruction can address outside of it.
type Memory struct {
	data [Size]byte
}

// New returns a new memory instance with the glyph data written to its start.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes the memory and rewrites the glyph data.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontOffset:], font[:])
}

// Load copies the program image to the program offset.
// The memory is left untouched if the program does not fit.
func (m *Memory) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d bytes", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramOffset:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m.data[wrap(address)]
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m.data[wrap(address)] = value
}

// ReadWord returns the big endian 16 bit word at the given address.
func (m *Memory) ReadWord(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

// ReadBlock returns a copy of length bytes starting at the given address.
func (m *Memory) ReadBlock(address uint16, length int) []byte {
	block := make([]byte, length)
	for i := range block {
		block[i] = m.Read(address + uint16(i))
	}
	return block
}

func wrap(address uint16) uint16 {
	return address % Size
}
