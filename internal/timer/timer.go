// Package timer provides the delay and sound countdown timers.
package timer

import "time"

// DefaultHz is the reference decrement rate of the timers.
const DefaultHz = 600

// Unit holds the delay and sound timers. Both count down towards zero at a
// fixed real time rate that is independent of the instruction rate.
type Unit struct {
	delay uint8
	sound uint8

	interval time.Duration
	elapsed  time.Duration
}

// New returns a timer unit that decrements at the given rate in Hz.
// A rate of 0 or less selects DefaultHz.
func New(hz int) *Unit {
	if hz <= 0 {
		hz = DefaultHz
	}
	return &Unit{
		interval: time.Second / time.Duration(hz),
	}
}

// Interval returns the minimum time between two decrements.
func (u *Unit) Interval() time.Duration {
	return u.interval
}

// Tick accounts the elapsed time since the previous call. Once a full interval
// has accumulated both timers are decremented by one, never below zero, and the
// accumulated time restarts. Timers are never decremented more than once per call.
// It returns whether a decrement happened.
func (u *Unit) Tick(elapsed time.Duration) bool {
	if elapsed > 0 {
		u.elapsed += elapsed
	}
	if u.elapsed < u.interval {
		return false
	}
	u.elapsed = 0

	if u.delay > 0 {
		u.delay--
	}
	if u.sound > 0 {
		u.sound--
	}
	return true
}

// Delay returns the delay timer value.
func (u *Unit) Delay() uint8 {
	return u.delay
}

// SetDelay sets the delay timer value.
func (u *Unit) SetDelay(value uint8) {
	u.delay = value
}

// Sound returns the sound timer value, a tone is active while it is not zero.
func (u *Unit) Sound() uint8 {
	return u.sound
}

// SetSound sets the sound timer value.
func (u *Unit) SetSound(value uint8) {
	u.sound = value
}

// Reset clears both timers and the accumulated time.
func (u *Unit) Reset() {
	u.delay = 0
	u.sound = 0
	u.elapsed = 0
}
