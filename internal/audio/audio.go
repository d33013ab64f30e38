// Package audio provides the outputs of the single tone beeper that sounds
// while the sound timer is not zero.
package audio

import "time"

// Default beeper settings.
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440.0

	amplitude = 0.25
)

// Sink receives the beeper state of the virtual machine.
type Sink interface {
	// Update reports whether the beeper is active and the real time that
	// passed since the previous update.
	Update(active bool, elapsed time.Duration)

	// Close stops the output and releases its resources.
	Close() error
}
