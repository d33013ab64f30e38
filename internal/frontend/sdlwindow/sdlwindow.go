// Package sdlwindow provides a window frontend based on SDL2.
package sdlwindow

import (
	"fmt"
	"runtime"
	"unicode"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
	"github.com/retroenv/sipeit/internal/keymap"
	"github.com/veandco/go-sdl2/sdl"
)

// DefaultScale is the default number of window pixels per display pixel.
const DefaultScale = 10

// SDL requires all video calls to happen on the main thread.
func init() {
	runtime.LockOSThread()
}

// Options contains the window settings.
type Options struct {
	Title string
	Scale int
}

// Frontend renders the display into a window and reads the keyboard.
type Frontend struct {
	logger *log.Logger

	window   *sdl.Window
	renderer *sdl.Renderer
	rects    []sdl.Rect
}

// New initializes SDL and opens the window.
func New(logger *log.Logger, opts Options) (*Frontend, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	width := int32(display.Width * opts.Scale)
	height := int32(display.Height * opts.Scale)
	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	f := &Frontend{
		logger: logger,
		window: window,
		rects:  make([]sdl.Rect, 0, display.Width*display.Height),
	}

	f.renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	if err := f.renderer.SetLogicalSize(display.Width, display.Height); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("setting logical size: %w", err)
	}

	logger.Debug("SDL window opened",
		log.Int("width", int(width)),
		log.Int("height", int(height)))
	return f, nil
}

// Poll drains the SDL event queue. Closing the window or pressing escape
// requests to quit.
func (f *Frontend) Poll() ([]input.Event, bool, error) {
	var events []input.Event
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
				continue
			}

			key, ok := lookup(ev.Keysym.Sym)
			if !ok {
				continue
			}
			events = append(events, input.Event{
				Key:  key,
				Down: ev.Type == sdl.KEYDOWN,
			})
		}
	}

	return events, quit, nil
}

// Render draws every lit pixel as a filled rectangle, scaled to the window size.
func (f *Frontend) Render(buf *display.Buffer) error {
	f.rects = f.rects[:0]
	for y := range display.Height {
		for x := range display.Width {
			if buf.Pixel(x, y) {
				f.rects = append(f.rects, sdl.Rect{X: int32(x), Y: int32(y), W: 1, H: 1})
			}
		}
	}

	if err := f.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return fmt.Errorf("setting background color: %w", err)
	}
	if err := f.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}

	if len(f.rects) > 0 {
		if err := f.renderer.SetDrawColor(255, 255, 255, 255); err != nil {
			return fmt.Errorf("setting pixel color: %w", err)
		}
		if err := f.renderer.FillRects(f.rects); err != nil {
			return fmt.Errorf("drawing pixels: %w", err)
		}
	}

	f.renderer.Present()
	return nil
}

// Close destroys the window and shuts SDL down.
func (f *Frontend) Close() error {
	var firstErr error
	if f.renderer != nil {
		if err := f.renderer.Destroy(); err != nil {
			firstErr = fmt.Errorf("destroying renderer: %w", err)
		}
	}
	if f.window != nil {
		if err := f.window.Destroy(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("destroying window: %w", err)
		}
	}
	sdl.Quit()
	return firstErr
}

// lookup maps an SDL key code to a keypad key. Printable ASCII key codes
// equal their character value.
func lookup(code sdl.Keycode) (uint8, bool) {
	if code < 0 || code > unicode.MaxASCII {
		return 0, false
	}
	return keymap.Lookup(rune(code))
}
