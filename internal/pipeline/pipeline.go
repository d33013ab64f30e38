// Package pipeline orchestrates the program execution workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/audio"
	"github.com/retroenv/sipeit/internal/config"
	"github.com/retroenv/sipeit/internal/cpu"
	"github.com/retroenv/sipeit/internal/detector"
	"github.com/retroenv/sipeit/internal/emulator"
	"github.com/retroenv/sipeit/internal/frontend"
	"github.com/retroenv/sipeit/internal/loader"
	"github.com/retroenv/sipeit/internal/options"
	"github.com/retroenv/sipeit/internal/system"
)

// Result contains the final state of an emulation run.
type Result struct {
	Cycles     uint64
	Frames     uint64
	Registers  cpu.Registers
	StackDepth int
	Seed       uint64
}

// Pipeline orchestrates the complete execution workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new execution pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline: it loads the program, creates the host
// outputs selected by the options and runs the program until it ends.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (result *Result, err error) {
	data, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, err
	}

	detected := p.detector.Detect(opts.Input, data)
	if detected != arch.CHIP8System {
		p.logger.Warn("File does not look like a CHIP-8 program, running it anyway",
			log.String("file", opts.Input),
			log.Stringer("system", detected))
	}

	fe, err := config.CreateFrontend(p.logger, opts)
	if err != nil {
		return nil, fmt.Errorf("creating frontend: %w", err)
	}
	defer func() {
		if closeErr := fe.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing frontend: %w", closeErr))
		}
	}()

	sinks, err := config.CreateAudioSinks(p.logger, options.NewAudio(opts))
	if err != nil {
		return nil, fmt.Errorf("creating audio outputs: %w", err)
	}
	defer func() {
		if closeErr := config.CloseAudioSinks(sinks); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing audio outputs: %w", closeErr))
		}
	}()

	return p.ExecuteWithFrontend(ctx, data, opts, fe, sinks)
}

// ExecuteWithFrontend runs a pre-loaded program image with the given host outputs.
// This is useful for testing and programmatic usage where the outputs are already created.
// The caller remains responsible for closing the outputs.
func (p *Pipeline) ExecuteWithFrontend(ctx context.Context, data []byte, opts options.Program,
	fe frontend.Frontend, sinks []audio.Sink) (*Result, error) {

	machine := system.New(p.logger, system.Config{
		Seed:    opts.Seed,
		TimerHz: opts.TimerHz,
		Trace:   opts.Trace,
	})
	if err := machine.Load(data); err != nil {
		return nil, fmt.Errorf("initializing machine: %w", err)
	}

	p.printInfo(opts, len(data), machine.Seed())

	emu := emulator.New(p.logger, machine, fe, sinks, emulator.Options{
		CPUHz:  opts.CPUHz,
		Cycles: opts.Cycles,
	})
	runErr := emu.Run(ctx)

	result := &Result{
		Cycles:     emu.Cycles(),
		Frames:     emu.Frames(),
		Registers:  machine.Registers(),
		StackDepth: machine.StackDepth(),
		Seed:       machine.Seed(),
	}
	p.printSummary(result)

	if runErr != nil {
		return result, fmt.Errorf("running program: %w", runErr)
	}
	return result, nil
}

// printInfo prints information about the program being run.
func (p *Pipeline) printInfo(opts options.Program, size int, seed uint64) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 program",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("frontend", opts.Frontend),
		log.Int("cpuHz", opts.CPUHz),
	)
	p.logger.Debug("Random generator", log.Hex("seed", seed))
}

// printSummary logs the final machine state at debug level.
func (p *Pipeline) printSummary(result *Result) {
	regs := result.Registers
	p.logger.Debug("Emulation finished",
		log.Int("cycles", int(result.Cycles)),
		log.Int("frames", int(result.Frames)),
		log.Hex("pc", regs.PC),
		log.Hex("i", regs.I),
		log.String("v", fmt.Sprintf("% X", regs.V[:])),
		log.Int("stack", result.StackDepth),
	)
}
