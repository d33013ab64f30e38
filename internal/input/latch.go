// Package input provides the key state latch of the 16 key hex keypad.
package input

import (
	"errors"
	"fmt"
)

// Keys is the number of keys of the keypad.
const Keys = 16

// ErrInvalidKey is returned for key codes outside of 0x0-0xF.
var ErrInvalidKey = errors.New("invalid key")

// Event is a key transition reported by a host input source.
type Event struct {
	Key  uint8
	Down bool
}

// Latch holds the pressed state of all keys and the wait-for-key suspension.
type Latch struct {
	down [Keys]bool

	waiting bool
	target  uint8
}

// New returns a new latch with all keys released.
func New() *Latch {
	return &Latch{}
}

// Press marks the key as down. If a wait for a key is pending it ends, and
// the register index that the key code has to be assigned to is returned
// together with true.
func (l *Latch) Press(key uint8) (uint8, bool, error) {
	if err := validate(key); err != nil {
		return 0, false, err
	}

	l.down[key] = true
	if !l.waiting {
		return 0, false, nil
	}
	l.waiting = false
	return l.target, true, nil
}

// Release marks the key as up.
func (l *Latch) Release(key uint8) error {
	if err := validate(key); err != nil {
		return err
	}
	l.down[key] = false
	return nil
}

// IsDown returns whether the key in the low nibble of key is pressed.
func (l *Latch) IsDown(key uint8) bool {
	return l.down[key&0x0F]
}

// Wait suspends execution until the next key press, which will be stored in
// the given register.
func (l *Latch) Wait(register uint8) {
	l.waiting = true
	l.target = register & 0x0F
}

// Waiting returns whether execution is suspended waiting for a key press.
func (l *Latch) Waiting() bool {
	return l.waiting
}

// Target returns the register index that the next key press will be stored in.
func (l *Latch) Target() uint8 {
	return l.target
}

// Reset releases all keys and clears a pending wait.
func (l *Latch) Reset() {
	l.down = [Keys]bool{}
	l.waiting = false
	l.target = 0
}

func validate(key uint8) error {
	if key >= Keys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return nil
}
