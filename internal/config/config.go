// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/audio"
	"github.com/retroenv/sipeit/internal/frontend"
	"github.com/retroenv/sipeit/internal/frontend/headless"
	"github.com/retroenv/sipeit/internal/frontend/sdlwindow"
	"github.com/retroenv/sipeit/internal/frontend/terminal"
	"github.com/retroenv/sipeit/internal/options"
)

const windowTitle = "Sipeit"

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateFrontend creates the frontend selected by the options.
func CreateFrontend(logger *log.Logger, opts options.Program) (frontend.Frontend, error) {
	switch opts.Frontend {
	case frontend.SDL:
		window, err := sdlwindow.New(logger, sdlwindow.Options{
			Title: windowTitle,
			Scale: opts.Scale,
		})
		if err != nil {
			return nil, fmt.Errorf("creating sdl frontend: %w", err)
		}
		return window, nil

	case frontend.Terminal:
		term, err := terminal.New(logger, terminal.Options{})
		if err != nil {
			return nil, fmt.Errorf("creating terminal frontend: %w", err)
		}
		return term, nil

	case frontend.Headless:
		return headless.New(logger), nil

	default:
		return nil, fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}

// CreateAudioSinks creates the beeper outputs for the audio settings. An
// unavailable audio device is not fatal, the program runs without sound.
func CreateAudioSinks(logger *log.Logger, opts options.Audio) ([]audio.Sink, error) {
	var sinks []audio.Sink

	if !opts.Mute {
		player, err := audio.NewPlayer(logger, audio.PlayerOptions{
			SampleRate: opts.SampleRate,
			Frequency:  opts.Frequency,
		})
		if err != nil {
			logger.Warn("Audio playback is not available", log.Err(err))
		} else {
			sinks = append(sinks, player)
		}
	}

	if opts.WavFile != "" {
		recorder, err := audio.NewRecorder(logger, opts.WavFile, opts.Frequency, opts.SampleRate)
		if err != nil {
			return nil, errors.Join(err, CloseAudioSinks(sinks))
		}
		sinks = append(sinks, recorder)
	}

	return sinks, nil
}

// CloseAudioSinks closes all beeper outputs and returns the joined errors.
func CloseAudioSinks(sinks []audio.Sink) error {
	var errs []error
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
