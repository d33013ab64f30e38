// Package emulator drives a virtual machine in real time, connecting it to a
// frontend and audio outputs.
package emulator

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/audio"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/frontend"
	"github.com/retroenv/sipeit/internal/input"
)

// Pacing defaults.
const (
	DefaultCPUHz = 500
	FrameRate    = 60

	// maxLag is the delay after which the emulation stops catching up on
	// missed instructions.
	maxLag = 100 * time.Millisecond
)

// Machine is the virtual machine that is driven by the emulator.
type Machine interface {
	Step() error
	TickTimers(elapsed time.Duration)
	Apply(event input.Event) error
	Display() *display.Buffer
	SoundTimer() uint8
}

// Options contains the emulation settings.
type Options struct {
	CPUHz  int    // instructions per second, 0 selects DefaultCPUHz
	Cycles uint64 // stop after this many instructions, 0 runs until quit
}

// Emulator runs the fetch-execute loop and services the host at frame rate.
type Emulator struct {
	logger   *log.Logger
	machine  Machine
	frontend frontend.Frontend
	sinks    []audio.Sink

	interval      time.Duration
	frameInterval time.Duration
	limit         uint64

	now   func() time.Time
	sleep func(time.Duration)

	cycles uint64
	frames uint64
}

// New returns a new emulator for the given machine.
func New(logger *log.Logger, machine Machine, fe frontend.Frontend, sinks []audio.Sink, opts Options) *Emulator {
	if opts.CPUHz <= 0 {
		opts.CPUHz = DefaultCPUHz
	}

	return &Emulator{
		logger:        logger,
		machine:       machine,
		frontend:      fe,
		sinks:         sinks,
		interval:      time.Second / time.Duration(opts.CPUHz),
		frameInterval: time.Second / FrameRate,
		limit:         opts.Cycles,
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// Run executes instructions until the context is cancelled, the frontend
// requests to quit or the cycle limit is reached, which all return nil.
// An error is returned if the machine fails to execute an instruction.
func (e *Emulator) Run(ctx context.Context) error {
	start := e.now()
	lastTick := start
	lastFrame := start
	nextFrame := start
	deadline := start

	e.logger.Debug("Emulation started",
		log.Int("cpuHz", int(time.Second/e.interval)),
		log.Int("cycles", int(e.limit)))

	for {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("Emulation cancelled", log.Err(err))
			return nil
		}

		now := e.now()
		if !now.Before(nextFrame) {
			quit, err := e.frame(now.Sub(lastFrame))
			if err != nil {
				return err
			}
			if quit {
				e.logger.Debug("Quit requested")
				return nil
			}
			lastFrame = now
			nextFrame = now.Add(e.frameInterval)
		}

		if err := e.machine.Step(); err != nil {
			return fmt.Errorf("executing instruction: %w", err)
		}
		e.cycles++

		now = e.now()
		e.machine.TickTimers(now.Sub(lastTick))
		lastTick = now

		if e.limit > 0 && e.cycles >= e.limit {
			e.logger.Debug("Cycle limit reached", log.Int("cycles", int(e.cycles)))
			return nil
		}

		deadline = deadline.Add(e.interval)
		wait := deadline.Sub(now)
		switch {
		case wait > 0:
			e.sleep(wait)
		case wait < -maxLag:
			e.logger.Debug("Emulation is falling behind", log.Stringer("lag", -wait))
			deadline = now
		}
	}
}

// frame services the host: it applies the input events, renders the display
// and updates the audio outputs.
func (e *Emulator) frame(elapsed time.Duration) (bool, error) {
	events, quit, err := e.frontend.Poll()
	if err != nil {
		return false, fmt.Errorf("polling frontend: %w", err)
	}

	for _, event := range events {
		if err := e.machine.Apply(event); err != nil {
			return false, fmt.Errorf("applying input event: %w", err)
		}
	}

	if err := e.frontend.Render(e.machine.Display()); err != nil {
		return false, fmt.Errorf("rendering frame: %w", err)
	}
	e.frames++

	active := e.machine.SoundTimer() != 0
	for _, sink := range e.sinks {
		sink.Update(active, elapsed)
	}

	return quit, nil
}

// Cycles returns the number of executed instruction steps.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// Frames returns the number of rendered frames.
func (e *Emulator) Frames() uint64 {
	return e.frames
}
