package trigger

import (
	"context"

	"github.com/oshokin/deskclock/internal/logger"
)

// SoundPlayer plays a named sound. Implemented by the audio package;
// other backends can be substituted by the host application.
type SoundPlayer interface {
	Play(ctx context.Context, soundID string) error
}

// VoiceSpeaker speaks a text announcement.
type VoiceSpeaker interface {
	Speak(ctx context.Context, text string) error
}

// Notifier shows a desktop or system notification.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Callback receives every trigger event, typically to refresh a UI.
type Callback func(event Event)

// SoundAdapter plays the event's sound through a SoundPlayer.
type SoundAdapter struct {
	player SoundPlayer
}

// NewSoundAdapter wraps a player; returns nil for a nil player so the
// fanout skips the concern entirely.
//nolint:ireturn // Returning the interface keeps a nil collaborator a nil Adapter.
func NewSoundAdapter(player SoundPlayer) Adapter {
	if player == nil {
		return nil
	}

	return &SoundAdapter{player: player}
}

// Name implements Adapter.
func (*SoundAdapter) Name() string { return "sound" }

// Handle implements Adapter.
func (s *SoundAdapter) Handle(ctx context.Context, event Event) error {
	return s.player.Play(ctx, event.SoundID)
}

// VoiceAdapter speaks the announcement for events that request it.
type VoiceAdapter struct {
	speaker VoiceSpeaker
}

// NewVoiceAdapter wraps a speaker; returns nil for a nil speaker.
//nolint:ireturn // Returning the interface keeps a nil collaborator a nil Adapter.
func NewVoiceAdapter(speaker VoiceSpeaker) Adapter {
	if speaker == nil {
		return nil
	}

	return &VoiceAdapter{speaker: speaker}
}

// Name implements Adapter.
func (*VoiceAdapter) Name() string { return "voice" }

// Handle implements Adapter.
func (v *VoiceAdapter) Handle(ctx context.Context, event Event) error {
	if !event.VoiceEnabled {
		return nil
	}

	return v.speaker.Speak(ctx, event.SpeechText())
}

// NotifyAdapter raises a notification for every event.
type NotifyAdapter struct {
	notifier Notifier
}

// NewNotifyAdapter wraps a notifier; returns nil for a nil notifier.
//nolint:ireturn // Returning the interface keeps a nil collaborator a nil Adapter.
func NewNotifyAdapter(notifier Notifier) Adapter {
	if notifier == nil {
		return nil
	}

	return &NotifyAdapter{notifier: notifier}
}

// Name implements Adapter.
func (*NotifyAdapter) Name() string { return "notify" }

// Handle implements Adapter.
func (n *NotifyAdapter) Handle(ctx context.Context, event Event) error {
	return n.notifier.Notify(ctx, event.Title(), event.Message)
}

// CallbackAdapter forwards events to a host-supplied callback.
type CallbackAdapter struct {
	callback Callback
}

// NewCallbackAdapter wraps a callback; returns nil for a nil callback.
//nolint:ireturn // Returning the interface keeps a nil collaborator a nil Adapter.
func NewCallbackAdapter(callback Callback) Adapter {
	if callback == nil {
		return nil
	}

	return &CallbackAdapter{callback: callback}
}

// Name implements Adapter.
func (*CallbackAdapter) Name() string { return "callback" }

// Handle implements Adapter.
func (c *CallbackAdapter) Handle(_ context.Context, event Event) error {
	c.callback(event)

	return nil
}

// LogNotifier is the headless Notifier used when no desktop integration
// is wired in: it writes the notification to the log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, title, message string) error {
	logger.InfoKV(ctx, "Notification", "title", title, "message", message)

	return nil
}

// LogSpeaker is the headless VoiceSpeaker used when no speech engine is
// wired in: it writes the announcement to the log.
type LogSpeaker struct{}

// Speak implements VoiceSpeaker.
func (LogSpeaker) Speak(ctx context.Context, text string) error {
	logger.InfoKV(ctx, "Voice announcement", "text", text)

	return nil
}
