package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

const float32Size = 4

// Beeper is a stream of mono float32 little endian samples that contains the
// tone while the beeper is active and silence otherwise. The audio device
// reads it concurrently to updates.
type Beeper struct {
	active atomic.Bool

	mu      sync.Mutex
	osc     *Oscillator
	samples []float32
}

// NewBeeper returns a silent beeper.
func NewBeeper(frequency float64, sampleRate int) *Beeper {
	return &Beeper{
		osc: NewOscillator(frequency, sampleRate),
	}
}

// Update sets the beeper state.
func (b *Beeper) Update(active bool, _ time.Duration) {
	b.active.Store(active)
}

// Active returns whether the tone is currently generated.
func (b *Beeper) Active() bool {
	return b.active.Load()
}

// Read fills p with whole samples. It never fails and never blocks.
func (b *Beeper) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := len(p) / float32Size
	if cap(b.samples) < count {
		b.samples = make([]float32, count)
	}
	samples := b.samples[:count]
	b.osc.Fill(samples, b.active.Load())

	for i, sample := range samples {
		binary.LittleEndian.PutUint32(p[i*float32Size:], math.Float32bits(sample))
	}
	return count * float32Size, nil
}
