package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/sipeit/internal/memory"
)

var (
	// ErrInvalidInstruction is returned for instruction words that do not encode a defined instruction.
	ErrInvalidInstruction = errors.New("invalid instruction")
	// ErrStackOverflow is returned for a call while the call stack is full.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned for a return while the call stack is empty.
	ErrStackUnderflow = errors.New("stack underflow")
)

// ExecutionError is a fatal execution failure, it carries the context that is
// needed to reproduce it. The program counter still points at the failing instruction.
type ExecutionError struct {
	Err         error
	Instruction uint16 // raw instruction word
	Address     uint16 // memory address of the instruction
	Offset      int    // address relative to the program start
}

func newExecutionError(err error, word, address uint16) *ExecutionError {
	return &ExecutionError{
		Err:         err,
		Instruction: word,
		Address:     address,
		Offset:      int(address) - memory.ProgramOffset,
	}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s (%04X) at offset %d [address $%03X]", e.Err, e.Instruction, e.Offset, e.Address)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
