// Package headless provides a frontend without any host output, used for
// automated runs and tests.
package headless

import (
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sipeit/internal/display"
	"github.com/retroenv/sipeit/internal/input"
)

// Frontend queues injected input events and records rendered frames.
type Frontend struct {
	logger *log.Logger

	mu     sync.Mutex
	events []input.Event
	quit   bool
	frames int
	last   [display.Height][display.Width]bool
}

// New returns a new headless frontend.
func New(logger *log.Logger) *Frontend {
	return &Frontend{
		logger: logger,
	}
}

// Inject queues events that are returned by the next Poll call.
func (f *Frontend) Inject(events ...input.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
}

// RequestQuit makes the next Poll call report a quit request.
func (f *Frontend) RequestQuit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quit = true
}

// Poll returns and clears the queued events.
func (f *Frontend) Poll() ([]input.Event, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := f.events
	f.events = nil
	return events, f.quit, nil
}

// Render records a snapshot of the display buffer.
func (f *Frontend) Render(buf *display.Buffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frames++
	f.last = buf.Snapshot()
	return nil
}

// Frames returns the number of rendered frames.
func (f *Frontend) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// LastFrame returns the most recently rendered display content.
func (f *Frontend) LastFrame() [display.Height][display.Width]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Close logs the number of rendered frames.
func (f *Frontend) Close() error {
	f.logger.Debug("Headless frontend closed", log.Int("frames", f.Frames()))
	return nil
}
