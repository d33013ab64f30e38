// Package options contains the program options.
package options

import (
	"github.com/retroenv/sipeit/internal/audio"
	"github.com/retroenv/sipeit/internal/emulator"
	"github.com/retroenv/sipeit/internal/frontend"
	"github.com/retroenv/sipeit/internal/timer"
)

// DefaultScale is the default number of window pixels per display pixel.
const DefaultScale = 10

// Parameters contains file path options.
type Parameters struct {
	Input string // program image to run
	Wav   string // file to record the beeper output to
}

// Flags contains behavior options.
type Flags struct {
	Frontend string // sdl, terminal or headless
	Scale    int    // window pixels per display pixel
	CPUHz    int    // instructions per second
	TimerHz  int    // timer decrement rate
	Seed     uint64 // random generator seed, 0 selects a time based seed
	Cycles   uint64 // stop after this many instructions, 0 runs until quit
	Mute     bool   // disable audio playback
	Trace    bool   // log every executed instruction
	Debug    bool   // enable debug logging
	Quiet    bool   // only log errors
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
}

// New returns program options with all defaults set.
func New() Program {
	return Program{
		Flags: Flags{
			Frontend: frontend.SDL,
			Scale:    DefaultScale,
			CPUHz:    emulator.DefaultCPUHz,
			TimerHz:  timer.DefaultHz,
		},
	}
}

// Audio defines the settings of the beeper outputs.
type Audio struct {
	Mute       bool
	WavFile    string
	SampleRate int
	Frequency  float64
}

// NewAudio returns the audio settings for the program options.
func NewAudio(opts Program) Audio {
	return Audio{
		Mute:       opts.Mute,
		WavFile:    opts.Wav,
		SampleRate: audio.DefaultSampleRate,
		Frequency:  audio.DefaultFrequency,
	}
}
