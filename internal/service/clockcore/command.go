package clockcore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/deskclock/internal/audio"
	"github.com/oshokin/deskclock/internal/config"
	"github.com/oshokin/deskclock/internal/logger"
	"github.com/oshokin/deskclock/internal/service/common"
	"github.com/oshokin/deskclock/internal/trigger"
)

// ExecutableName is the daemon's process name, used by the instance guard.
const ExecutableName = "deskclock"

// ErrAlreadyRunning indicates another daemon instance owns the clock.
var ErrAlreadyRunning = errors.New("another deskclock instance is already running")

// Options controls the deskclock daemon process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// SkipInstanceGuard disables the duplicate-process check, used by tests.
	SkipInstanceGuard bool
}

// Run starts the timekeeping daemon and blocks until the context is
// canceled. Alarms come from the settings file; triggers are played
// through the configured sound directory and logged.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, ExecutableName)

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if settings.LogLevel != "" {
		if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
			logger.SetLevel(level)
		}
	}

	if !opts.SkipInstanceGuard {
		running, guardErr := common.AnotherInstanceRunning(ExecutableName)
		if guardErr != nil {
			logger.Warnf(ctx, "Instance check failed, continuing anyway: %v", guardErr)
		} else if running {
			return ErrAlreadyRunning
		}
	}

	service, err := NewService(settings, buildCollaborators(ctx, settings))
	if err != nil {
		return err
	}

	if err = service.Provision(ctx, settings.Alarms); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Deskclock daemon started",
		"alarms", len(settings.Alarms),
		"tick_interval", settings.TickInterval,
		"sound_dir", settings.SoundDirectory)

	<-ctx.Done()

	logger.Info(ctx, "Shutting down")
	service.Close(context.WithoutCancel(ctx))
	logger.Info(ctx, "Deskclock daemon stopped")

	return nil
}

// buildCollaborators assembles the side-effect implementations for a
// headless run: real sound playback when the sound directory exists,
// log-backed voice and notification otherwise.
func buildCollaborators(ctx context.Context, settings *config.Config) Collaborators {
	collaborators := Collaborators{
		Voice:    trigger.LogSpeaker{},
		Notifier: trigger.LogNotifier{},
	}

	if settings.SoundDirectory == "" {
		return collaborators
	}

	if _, err := os.Stat(settings.SoundDirectory); err != nil {
		logger.Warnf(ctx, "Sound directory unavailable, triggers will only be logged: %v", err)

		return collaborators
	}

	collaborators.Sound = audio.NewPlayer(settings.SoundDirectory)

	return collaborators
}
