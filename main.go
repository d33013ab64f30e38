// Package main implements the main entry point for a CHIP-8 interpreter
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/cli"
	"github.com/retroenv/sipeit/internal/config"
	"github.com/retroenv/sipeit/internal/cpu"
	"github.com/retroenv/sipeit/internal/options"
	"github.com/retroenv/sipeit/internal/pipeline"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(opts)
			if msg := usageErr.Error(); msg != "" {
				fmt.Println(msg)
				fmt.Println()
			}
			usageErr.ShowUsage()
		} else {
			logger := config.CreateLogger(opts.Debug, opts.Quiet)
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(opts)

	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts); err != nil {
		reportError(logger, err)
		os.Exit(1)
	}
}

// reportError logs a fatal error with the location of the failing instruction.
func reportError(logger *log.Logger, err error) {
	var execErr *cpu.ExecutionError
	if errors.As(err, &execErr) {
		logger.Error("Program execution failed",
			log.Err(execErr.Err),
			log.Hex("instruction", execErr.Instruction),
			log.Hex("address", execErr.Address),
			log.Int("offset", execErr.Offset))
		return
	}
	logger.Error("Running program failed", log.Err(err))
}

func printBanner(opts options.Program) {
	if opts.Quiet {
		return
	}
	fmt.Println("[--------------------------------]")
	fmt.Println("[ sipeit - CHIP-8 interpreter    ]")
	fmt.Printf("[--------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
