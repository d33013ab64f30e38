// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/sipeit/internal/frontend"
	"github.com/retroenv/sipeit/internal/keymap"
	"github.com/retroenv/sipeit/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: sipeit [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
	writeKeypad(os.Stdout)
	fmt.Println()
}

// keypadRows is the arrangement of the hex keypad.
var keypadRows = [4][4]uint8{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

// writeKeypad writes the host keys next to the keypad keys they map to.
func writeKeypad(w io.Writer) {
	for i, row := range keypadRows {
		var host, pad strings.Builder
		for _, key := range row {
			r, _ := keymap.Rune(key)
			fmt.Fprintf(&host, " %c", r)
			fmt.Fprintf(&pad, " %X", key)
		}

		label := "       "
		if i == 0 {
			label = "keypad:"
		}
		_, _ = fmt.Fprintf(w, "%s %s  -> %s\n", label, host.String(), pad.String())
	}
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(frontend.Names, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(frontend.Names, ", "))
	}

	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, must be positive", opts.Scale)
	}
	if opts.CPUHz <= 0 {
		return fmt.Errorf("invalid instruction rate %d, must be positive", opts.CPUHz)
	}
	if opts.TimerHz <= 0 {
		return fmt.Errorf("invalid timer rate %d, must be positive", opts.TimerHz)
	}

	if opts.Debug && opts.Quiet {
		opts.Quiet = false
	}
	// tracing logs at debug level
	if opts.Trace {
		opts.Debug = true
		opts.Quiet = false
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the program file to run")
	flags.StringVar(&opts.Wav, "wav", "", "record the beeper output to the given .wav file")
	flags.StringVar(&opts.Frontend, "frontend", opts.Frontend, "frontend to use ("+strings.Join(frontend.Names, "/")+")")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per display pixel of the sdl frontend")
	flags.IntVar(&opts.CPUHz, "cpu-hz", opts.CPUHz, "instructions to execute per second")
	flags.IntVar(&opts.TimerHz, "timer-hz", opts.TimerHz, "decrement rate of the delay and sound timers per second")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses a time based seed")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after executing the given number of instructions, 0 runs until quit")
	flags.BoolVar(&opts.Mute, "mute", false, "disable audio playback")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
