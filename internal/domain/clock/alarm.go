package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidTimeFormat is returned when an alarm time is not a valid "HH:MM" string.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// DefaultAlarmLabel is used when an alarm is created without a label.
const DefaultAlarmLabel = "Alarm"

// AlarmID uniquely identifies an alarm for its whole lifetime.
type AlarmID = uuid.UUID

// Alarm is a wall-clock trigger definition.
// Hour and Minute are fixed at creation; only Enabled changes afterwards.
type Alarm struct {
	// ID is the stable identifier assigned at insertion.
	ID AlarmID
	// Hour is the trigger hour in [0, 23].
	Hour int
	// Minute is the trigger minute in [0, 59].
	Minute int
	// Label is the human-readable alarm name.
	Label string
	// SoundID names the sound a player should use when the alarm fires.
	SoundID string
	// VoiceEnabled requests a spoken announcement on top of the sound.
	VoiceEnabled bool
	// Enabled controls whether the scheduler considers this alarm.
	Enabled bool
}

// Clone returns a copy of the alarm to avoid leaking internal references.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// TimeText renders the trigger time as zero-padded "HH:MM".
func (a *Alarm) TimeText() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// ParseClockTime parses "HH:MM" into an hour and minute pair.
// It fails with ErrInvalidTimeFormat unless the input is exactly two
// colon-separated integers with hour in [0, 23] and minute in [0, 59].
func ParseClockTime(timeText string) (hour, minute int, err error) {
	parts := strings.Split(timeText, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeText)
	}

	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeText)
	}

	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeText)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q is out of range", ErrInvalidTimeFormat, timeText)
	}

	return hour, minute, nil
}
