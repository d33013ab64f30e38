package audio

// Oscillator generates a square wave.
type Oscillator struct {
	step  float64 // phase increment per sample
	phase float64 // position within the current period, [0, 1)
}

// NewOscillator returns an oscillator for the given tone frequency and sample rate.
func NewOscillator(frequency float64, sampleRate int) *Oscillator {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Oscillator{
		step: frequency / float64(sampleRate),
	}
}

// Next returns the next sample. The wave keeps its phase while silent, so
// that the tone does not click when the beeper is toggled quickly.
func (o *Oscillator) Next(on bool) float32 {
	var sample float32
	if on {
		sample = amplitude
		if o.phase >= 0.5 {
			sample = -amplitude
		}
	}

	o.phase += o.step
	if o.phase >= 1 {
		o.phase--
	}
	return sample
}

// Fill writes the next len(samples) samples.
func (o *Oscillator) Fill(samples []float32, on bool) {
	for i := range samples {
		samples[i] = o.Next(on)
	}
}
