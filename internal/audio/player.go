package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/oshokin/deskclock/internal/logger"
)

// DefaultSoundID is used when a trigger event carries no sound id.
const DefaultSoundID = "default"

// playPollInterval is how often an active playback is checked for completion.
const playPollInterval = 10 * time.Millisecond

var errContextNotReady = errors.New("audio context is not ready")

// Player resolves sound ids to WAV files in a directory and plays them
// through the system audio device. It implements trigger.SoundPlayer.
type Player struct {
	// dir is where "<sound id>.wav" files live.
	dir string

	// initOnce guards one-time audio device initialisation. The device
	// format is fixed by the first sound played.
	initOnce sync.Once
	otoCtx   *oto.Context
	ready    bool
}

// NewPlayer creates a player resolving sounds against the provided directory.
func NewPlayer(dir string) *Player {
	return &Player{dir: dir}
}

// Play loads the named sound and plays it to completion.
// It blocks until playback ends or the context is canceled; the trigger
// dispatcher runs it on its own goroutine, so callers never wait on it.
func (p *Player) Play(ctx context.Context, soundID string) error {
	if soundID == "" {
		soundID = DefaultSoundID
	}

	path := filepath.Join(p.dir, soundID+".wav")

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read sound %q: %w", soundID, err)
	}

	format, samples, err := parseWAV(data)
	if err != nil {
		return fmt.Errorf("parse sound %q: %w", soundID, err)
	}

	if err = p.initContext(ctx, format); err != nil {
		return err
	}

	player := p.otoCtx.NewPlayer(bytes.NewReader(samples))
	defer player.Close()

	player.Play()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()

			return ctx.Err()
		case <-time.After(playPollInterval):
		}
	}

	return nil
}

// initContext opens the audio device once, using the first sound's format.
func (p *Player) initContext(ctx context.Context, format *wavFormat) error {
	p.initOnce.Do(func() {
		options := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		otoCtx, readyChan, err := oto.NewContext(options)
		if err != nil {
			logger.Errorf(ctx, "Failed to initialize audio context: %v", err)

			return
		}

		// Wait for the hardware audio device to come up.
		<-readyChan

		p.otoCtx = otoCtx
		p.ready = true

		logger.InfoKV(ctx, "Audio context initialized",
			"sample_rate", format.SampleRate, "channels", format.Channels)
	})

	if !p.ready {
		return errContextNotReady
	}

	return nil
}
