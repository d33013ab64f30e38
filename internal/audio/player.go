package audio

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/retrogolib/log"
)

// Player plays the beeper on the audio device of the host.
type Player struct {
	logger *log.Logger
	beeper *Beeper

	ctx    *oto.Context
	player *oto.Player
}

// PlayerOptions contains the audio device settings.
type PlayerOptions struct {
	SampleRate int
	Frequency  float64
}

// NewPlayer opens the audio device and starts streaming the beeper, which
// is silent until the first active update.
func NewPlayer(logger *log.Logger, opts PlayerOptions) (*Player, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	p := &Player{
		logger: logger,
		beeper: NewBeeper(opts.Frequency, opts.SampleRate),
		ctx:    ctx,
	}
	p.player = ctx.NewPlayer(p.beeper)
	p.player.Play()

	logger.Debug("Audio device opened", log.Int("sampleRate", opts.SampleRate))
	return p, nil
}

// Update switches the tone on or off.
func (p *Player) Update(active bool, elapsed time.Duration) {
	p.beeper.Update(active, elapsed)
}

// Close stops the playback.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
