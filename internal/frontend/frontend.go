// Package frontend defines the host side presentation of the virtual machine.
package frontend

import (
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
)

// Supported frontend names.
const (
	SDL      = "sdl"
	Terminal = "terminal"
	Headless = "headless"
)

// Names lists all supported frontend names.
var Names = []string{SDL, Terminal, Headless}

// Frontend renders the display buffer and collects keypad input of the host.
type Frontend interface {
	// Poll returns the keypad events that occurred since the last call and
	// whether the user requested to quit.
	Poll() ([]input.Event, bool, error)

	// Render presents the current display buffer content.
	Render(buf *display.Buffer) error

	// Close releases all host resources.
	Close() error
}
