package clockcore

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/deskclock/internal/alarm"
	"github.com/oshokin/deskclock/internal/config"
	"github.com/oshokin/deskclock/internal/countdown"
	"github.com/oshokin/deskclock/internal/domain/clock"
	"github.com/oshokin/deskclock/internal/stopwatch"
	"github.com/oshokin/deskclock/internal/trigger"
)

// Collaborators are the external side-effect implementations the core
// dispatches to. Any of them may be nil; the corresponding concern is
// then skipped.
type Collaborators struct {
	// Sound plays alarm and timer sounds.
	Sound trigger.SoundPlayer
	// Voice speaks announcements for alarms that request it.
	Voice trigger.VoiceSpeaker
	// Notifier raises desktop or system notifications.
	Notifier trigger.Notifier
	// Callback receives every trigger event, typically to refresh a UI.
	Callback trigger.Callback
}

// Service bundles the timekeeping core behind the operation surface the
// UI, tray and companion consumers call: alarms, stopwatch and countdown
// timer, all dispatching side effects through one asynchronous boundary.
type Service struct {
	registry   *alarm.Registry
	stopwatch  *stopwatch.Engine
	timer      *countdown.Timer
	dispatcher trigger.Dispatcher
}

// NewService wires the core components together using the provided
// settings. A nil config gets every default.
func NewService(cfg *config.Config, collaborators Collaborators) (*Service, error) {
	if cfg == nil {
		cfg = new(config.Config)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	dispatcher := trigger.NewFanout(
		trigger.NewSoundAdapter(collaborators.Sound),
		trigger.NewVoiceAdapter(collaborators.Voice),
		trigger.NewNotifyAdapter(collaborators.Notifier),
		trigger.NewCallbackAdapter(collaborators.Callback),
	)

	return &Service{
		registry: alarm.NewRegistry(dispatcher,
			alarm.WithTickInterval(cfg.TickInterval),
			alarm.WithStopTimeout(cfg.ShutdownTimeout),
		),
		stopwatch: stopwatch.NewEngine(),
		timer: countdown.NewTimer(dispatcher,
			countdown.WithPollInterval(cfg.TimerPollInterval),
			countdown.WithStopTimeout(cfg.ShutdownTimeout),
		),
		dispatcher: dispatcher,
	}, nil
}

// Provision registers the alarms listed in the settings file.
func (s *Service) Provision(ctx context.Context, presets []config.PresetAlarm) error {
	for i, preset := range presets {
		if _, err := s.registry.Add(
			ctx, preset.Time, preset.Label, preset.Sound, preset.Voice,
		); err != nil {
			return fmt.Errorf("provision alarm %d: %w", i, err)
		}
	}

	return nil
}

// AddAlarm parses timeText as "HH:MM" and registers an enabled alarm.
func (s *Service) AddAlarm(
	ctx context.Context,
	timeText, label, soundID string,
	voiceEnabled bool,
) (clock.AlarmID, error) {
	return s.registry.Add(ctx, timeText, label, soundID, voiceEnabled)
}

// RemoveAlarm deletes an alarm, reporting whether it existed.
func (s *Service) RemoveAlarm(ctx context.Context, id clock.AlarmID) bool {
	return s.registry.Remove(ctx, id)
}

// ToggleAlarm flips an alarm's enabled flag, reporting whether it existed.
func (s *Service) ToggleAlarm(ctx context.Context, id clock.AlarmID) bool {
	return s.registry.Toggle(ctx, id)
}

// ListAlarms returns a snapshot of the alarms in insertion order.
func (s *Service) ListAlarms() []clock.Alarm {
	return s.registry.List()
}

// ClearAlarms removes every alarm.
func (s *Service) ClearAlarms(ctx context.Context) {
	s.registry.Clear(ctx)
}

// StartStopwatch starts or resumes the stopwatch.
func (s *Service) StartStopwatch() {
	s.stopwatch.Start()
}

// PauseStopwatch freezes the stopwatch.
func (s *Service) PauseStopwatch() {
	s.stopwatch.Pause()
}

// StopStopwatch resets the stopwatch and clears its laps.
func (s *Service) StopStopwatch() {
	s.stopwatch.Stop()
}

// Elapsed returns the stopwatch's accumulated time.
func (s *Service) Elapsed() time.Duration {
	return s.stopwatch.Elapsed()
}

// AddLap records the current elapsed time as a lap while running.
func (s *Service) AddLap() (time.Duration, bool) {
	return s.stopwatch.AddLap()
}

// Laps returns a copy of the recorded laps.
func (s *Service) Laps() []time.Duration {
	return s.stopwatch.Laps()
}

// FormatTime renders seconds as "MM:SS.ss" with unwrapped minutes.
func (s *Service) FormatTime(seconds float64) string {
	return stopwatch.Format(seconds)
}

// StartTimer arms the countdown and returns its cancellable watcher handle.
func (s *Service) StartTimer(
	ctx context.Context,
	duration time.Duration,
	onComplete func(),
) (*countdown.Watcher, error) {
	return s.timer.Start(ctx, duration, onComplete)
}

// PauseTimer freezes the countdown's remaining time.
func (s *Service) PauseTimer() {
	s.timer.Pause()
}

// ResumeTimer continues a paused countdown.
func (s *Service) ResumeTimer() {
	s.timer.Resume()
}

// CancelTimer disarms the countdown without dispatching completion.
func (s *Service) CancelTimer(ctx context.Context) {
	s.timer.Close(ctx)
}

// TimerRemaining returns the time left on the countdown.
func (s *Service) TimerRemaining() time.Duration {
	return s.timer.Remaining()
}

// TimerFinished reports whether the countdown completed and dispatched.
func (s *Service) TimerFinished() bool {
	return s.timer.IsFinished()
}

// Close stops the background tasks, each bounded by the shutdown timeout.
func (s *Service) Close(ctx context.Context) {
	s.registry.Close(ctx)
	s.timer.Close(ctx)
}
