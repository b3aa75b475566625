package trigger

import (
	"fmt"
	"time"

	"github.com/oshokin/deskclock/internal/domain/clock"
)

// Kind discriminates what produced a trigger event.
type Kind string

const (
	// KindAlarm marks events produced by a matched wall-clock alarm.
	KindAlarm Kind = "alarm"
	// KindTimer marks events produced by a finished countdown timer.
	KindTimer Kind = "timer"
)

// Event carries everything a collaborator needs to act on a trigger.
type Event struct {
	// Kind tells whether an alarm or a timer produced the event.
	Kind Kind
	// Label is the alarm label, or "Timer" for countdown completions.
	Label string
	// SoundID names the sound to play, empty for the default.
	SoundID string
	// VoiceEnabled requests a spoken announcement.
	VoiceEnabled bool
	// Message is the human-readable notification body.
	Message string
	// At is when the trigger happened.
	At time.Time
	// Alarm is a snapshot of the source alarm, nil for timer events.
	Alarm *clock.Alarm
}

// NewAlarmEvent builds the event dispatched when an alarm matches the wall clock.
func NewAlarmEvent(alarm *clock.Alarm, at time.Time) Event {
	snapshot := alarm.Clone()

	return Event{
		Kind:         KindAlarm,
		Label:        snapshot.Label,
		SoundID:      snapshot.SoundID,
		VoiceEnabled: snapshot.VoiceEnabled,
		Message:      fmt.Sprintf("%s - %s", snapshot.Label, snapshot.TimeText()),
		At:           at,
		Alarm:        snapshot,
	}
}

// NewTimerEvent builds the event dispatched when a countdown timer completes.
func NewTimerEvent(at time.Time) Event {
	return Event{
		Kind:    KindTimer,
		Label:   "Timer",
		Message: "Timer has finished!",
		At:      at,
	}
}

// Title is the notification title for the event.
func (e Event) Title() string {
	if e.Kind == KindTimer {
		return "Timer"
	}

	return "Alarm"
}

// SpeechText is the spoken announcement for the event.
func (e Event) SpeechText() string {
	if e.Kind == KindTimer {
		return "The timer has finished"
	}

	return fmt.Sprintf("Alarm %s. The time is %02d %02d", e.Label, e.Alarm.Hour, e.Alarm.Minute)
}
