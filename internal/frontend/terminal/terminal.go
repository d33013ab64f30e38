// Package terminal provides a frontend that renders into a text terminal.
package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/keymap"
	"golang.org/x/term"
)

// DefaultHold is the time that a key counts as held down after its last
// keystroke. Terminals do not report key releases.
const DefaultHold = 150 * time.Millisecond

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03

	escHome       = "\x1b[H"
	escClear      = "\x1b[2J"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// Options contains the terminal settings.
type Options struct {
	Hold time.Duration
}

// Frontend renders two display rows per text line using half block
// characters and reads keystrokes from the raw mode terminal.
type Frontend struct {
	logger *log.Logger
	out    io.Writer

	fd    int
	state *term.State

	keys    chan byte
	readErr chan error

	hold time.Duration
	held [input.Keys]time.Time // release deadline of every held key
	now  func() time.Time

	frame    bytes.Buffer
	last     [display.Height][display.Width]bool
	rendered bool
}

// New switches the standard input terminal to raw mode and clears the screen.
func New(logger *log.Logger, opts Options) (*Frontend, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("standard input is not a terminal")
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if width < display.Width || height < display.Height/2 {
			logger.Warn("Terminal is smaller than the display",
				log.Int("columns", width),
				log.Int("rows", height))
		}
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}

	f := newFrontend(logger, os.Stdin, os.Stdout, opts)
	f.fd = fd
	f.state = state

	if _, err := io.WriteString(f.out, escHideCursor+escClear); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("clearing terminal: %w", err)
	}
	return f, nil
}

func newFrontend(logger *log.Logger, in io.Reader, out io.Writer, opts Options) *Frontend {
	if opts.Hold <= 0 {
		opts.Hold = DefaultHold
	}

	f := &Frontend{
		logger:  logger,
		out:     out,
		keys:    make(chan byte, 256),
		readErr: make(chan error, 1),
		hold:    opts.Hold,
		now:     time.Now,
	}
	go f.read(in)
	return f
}

// read forwards all input bytes until the input fails or ends.
// The goroutine is left blocked in Read on Close.
func (f *Frontend) read(in io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			f.keys <- b
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.readErr <- err
			}
			return
		}
	}
}

// Poll returns press events for received keystrokes and release events for
// keys whose hold time expired. Escape and Ctrl+C request to quit.
func (f *Frontend) Poll() ([]input.Event, bool, error) {
	now := f.now()
	var events []input.Event
	quit := false

	for drained := false; !drained; {
		select {
		case b := <-f.keys:
			var stop bool
			events, stop = f.handle(events, b, now)
			quit = quit || stop

		case err := <-f.readErr:
			return events, quit, fmt.Errorf("reading terminal input: %w", err)

		default:
			drained = true
		}
	}

	return f.release(events, now), quit, nil
}

// handle processes a single input byte.
func (f *Frontend) handle(events []input.Event, b byte, now time.Time) ([]input.Event, bool) {
	if b == keyEscape || b == keyCtrlC {
		return events, true
	}

	key, ok := keymap.Lookup(rune(b))
	if !ok {
		return events, false
	}

	if f.held[key].IsZero() {
		events = append(events, input.Event{Key: key, Down: true})
	}
	// auto repeat of the terminal extends the hold time
	f.held[key] = now.Add(f.hold)
	return events, false
}

// release synthesizes release events for all expired keys.
func (f *Frontend) release(events []input.Event, now time.Time) []input.Event {
	for key, deadline := range f.held {
		if deadline.IsZero() || now.Before(deadline) {
			continue
		}
		f.held[key] = time.Time{}
		events = append(events, input.Event{Key: uint8(key)})
	}
	return events
}

// Render redraws the terminal if the display content changed.
func (f *Frontend) Render(buf *display.Buffer) error {
	snapshot := buf.Snapshot()
	if f.rendered && snapshot == f.last {
		return nil
	}
	f.last = snapshot
	f.rendered = true

	f.frame.Reset()
	writeFrame(&f.frame, &snapshot)
	if _, err := f.out.Write(f.frame.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close shows the cursor again and restores the terminal mode.
func (f *Frontend) Close() error {
	_, _ = io.WriteString(f.out, escShowCursor+"\r\n")

	if f.state == nil {
		return nil
	}
	if err := term.Restore(f.fd, f.state); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	f.state = nil
	return nil
}

// writeFrame writes the cursor home sequence followed by the display content,
// each text line combining two display rows.
func writeFrame(w *bytes.Buffer, pixels *[display.Height][display.Width]bool) {
	w.WriteString(escHome)

	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			top, bottom := pixels[y][x], pixels[y+1][x]
			switch {
			case top && bottom:
				w.WriteRune('█')
			case top:
				w.WriteRune('▀')
			case bottom:
				w.WriteRune('▄')
			default:
				w.WriteByte(' ')
			}
		}
		// raw mode does not translate line feeds
		w.WriteString("\r\n")
	}
}
