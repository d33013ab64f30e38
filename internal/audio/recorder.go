package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	recorderBitDepth  = 16
	wavFormatPCM      = 1
	recorderChannels  = 1
	maxRecordedSample = math.MaxInt16
)

// Recorder captures the beeper output into a 16 bit mono WAV file. Samples are
// streamed to the file on every update, the header sizes are written on close.
type Recorder struct {
	logger *log.Logger
	path   string
	file   *os.File
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	err    error // first write error, reported by Close

	sampleRate int
	osc        *Oscillator
	count      int
	remainder  int64 // sample time carried over to the next update, in sample rate nanoseconds
}

// NewRecorder creates the WAV file at the given path and returns a recorder
// writing to it.
func NewRecorder(logger *log.Logger, path string, frequency float64, sampleRate int) (*Recorder, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}

	return &Recorder{
		logger: logger,
		path:   path,
		file:   file,
		enc:    wav.NewEncoder(file, sampleRate, recorderBitDepth, recorderChannels, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: recorderChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: recorderBitDepth,
		},
		sampleRate: sampleRate,
		osc:        NewOscillator(frequency, sampleRate),
	}, nil
}

// Update writes the samples covering the elapsed time.
func (r *Recorder) Update(active bool, elapsed time.Duration) {
	if elapsed <= 0 || r.err != nil {
		return
	}

	units := int64(elapsed)*int64(r.sampleRate) + r.remainder
	count := int(units / int64(time.Second))
	r.remainder = units % int64(time.Second)
	if count == 0 {
		return
	}

	r.buf.Data = r.buf.Data[:0]
	for range count {
		sample := r.osc.Next(active)
		r.buf.Data = append(r.buf.Data, int(sample*maxRecordedSample))
	}

	if err := r.enc.Write(r.buf); err != nil {
		r.err = fmt.Errorf("writing wav samples: %w", err)
		return
	}
	r.count += count
}

// SampleCount returns the number of recorded samples.
func (r *Recorder) SampleCount() int {
	return r.count
}

// Close finalizes the WAV file.
func (r *Recorder) Close() error {
	if r.err != nil {
		_ = r.file.Close()
		return r.err
	}

	// an encoder without samples has not written its header yet
	if r.count == 0 {
		r.buf.Data = r.buf.Data[:0]
		if err := r.enc.Write(r.buf); err != nil {
			_ = r.file.Close()
			return fmt.Errorf("writing wav header: %w", err)
		}
	}

	if err := r.enc.Close(); err != nil {
		_ = r.file.Close()
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}

	r.logger.Info("Audio recording written",
		log.String("file", r.path),
		log.Int("samples", r.count))
	return nil
}
