package alarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/deskclock/internal/domain/clock"
	"github.com/oshokin/deskclock/internal/logger"
	"github.com/oshokin/deskclock/internal/trigger"
)

// entry pairs an alarm with its scheduling bookkeeping.
type entry struct {
	// alarm is the registered alarm definition.
	alarm clock.Alarm
	// lastFired is the wall-clock minute the alarm last fired in,
	// zero until the first fire. It is what makes firing idempotent
	// within a minute.
	lastFired time.Time
}

// Registry is the ordered, lock-protected collection of alarms.
// It owns the scheduler task: the first Add starts it and the Remove or
// Clear that empties the registry stops it.
type Registry struct {
	// mu serializes every mutation, the List snapshot and the
	// scheduler's due scan.
	mu      sync.Mutex
	entries []*entry

	// lifecycleMu serializes scheduler start/stop transitions with the
	// emptiness check they are based on.
	lifecycleMu sync.Mutex
	scheduler   *Scheduler
}

// NewRegistry creates a registry dispatching matched alarms to the
// provided dispatcher.
func NewRegistry(dispatcher trigger.Dispatcher, opts ...Option) *Registry {
	r := new(Registry)
	r.scheduler = newScheduler(r, dispatcher, opts...)

	return r
}

// Add parses timeText as "HH:MM" and appends an enabled alarm.
// An empty label defaults to "Alarm". The first successful Add starts
// the scheduler.
func (r *Registry) Add(
	ctx context.Context,
	timeText, label, soundID string,
	voiceEnabled bool,
) (clock.AlarmID, error) {
	hour, minute, err := clock.ParseClockTime(timeText)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add alarm: %w", err)
	}

	if label == "" {
		label = clock.DefaultAlarmLabel
	}

	alarm := clock.Alarm{
		ID:           uuid.New(),
		Hour:         hour,
		Minute:       minute,
		Label:        label,
		SoundID:      soundID,
		VoiceEnabled: voiceEnabled,
		Enabled:      true,
	}

	r.mu.Lock()
	r.entries = append(r.entries, &entry{alarm: alarm})
	r.mu.Unlock()

	r.reconcileScheduler(ctx)

	logger.InfoKV(ctx, "Alarm added",
		"id", alarm.ID, "time", alarm.TimeText(), "label", alarm.Label)

	return alarm.ID, nil
}

// Remove deletes the alarm with the given id.
// It reports whether the alarm existed; emptying the registry stops the
// scheduler.
func (r *Registry) Remove(ctx context.Context, id clock.AlarmID) bool {
	r.mu.Lock()

	found := false

	for i, e := range r.entries {
		if e.alarm.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			found = true

			break
		}
	}

	r.mu.Unlock()

	if !found {
		return false
	}

	r.reconcileScheduler(ctx)

	logger.InfoKV(ctx, "Alarm removed", "id", id)

	return true
}

// Toggle flips the enabled flag of the alarm with the given id.
// It reports whether the alarm existed.
func (r *Registry) Toggle(ctx context.Context, id clock.AlarmID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.alarm.ID == id {
			e.alarm.Enabled = !e.alarm.Enabled
			logger.InfoKV(ctx, "Alarm toggled", "id", id, "enabled", e.alarm.Enabled)

			return true
		}
	}

	return false
}

// Clear removes every alarm and stops the scheduler.
func (r *Registry) Clear(ctx context.Context) {
	r.mu.Lock()
	count := len(r.entries)
	r.entries = nil
	r.mu.Unlock()

	if count > 0 {
		r.reconcileScheduler(ctx)
		logger.InfoKV(ctx, "Alarms cleared", "count", count)
	}
}

// List returns a snapshot of the alarms in insertion order.
// Callers never observe a half-applied mutation and cannot reach the
// registry's internal state through the result.
func (r *Registry) List() []clock.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]clock.Alarm, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e.alarm)
	}

	return snapshot
}

// Len returns the number of registered alarms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Close stops the scheduler regardless of registry contents.
func (r *Registry) Close(ctx context.Context) {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()

	r.scheduler.Stop(ctx)
}

// reconcileScheduler brings the scheduler in line with registry emptiness.
// The lifecycle mutex makes the emptiness check and the Start or Stop
// acting on it one step, so mutations racing each other cannot strand a
// non-empty registry without a scheduler or leave one running on an
// empty registry. Every mutation reconciles after applying, so the last
// transition always reflects the final contents.
func (r *Registry) reconcileScheduler(ctx context.Context) {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()

	if r.Len() == 0 {
		r.scheduler.Stop(ctx)

		return
	}

	r.scheduler.Start(ctx)
}

// due returns snapshots of the enabled alarms matching now's hour and
// minute that have not fired this minute yet, marking them fired.
// The marker claim happens under the same lock as the match, so
// overlapping or repeated ticks within one minute cannot double-fire.
func (r *Registry) due(now time.Time) []clock.Alarm {
	minute := now.Truncate(time.Minute)

	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []clock.Alarm

	for _, e := range r.entries {
		if !e.alarm.Enabled || e.alarm.Hour != now.Hour() || e.alarm.Minute != now.Minute() {
			continue
		}

		if e.lastFired.Equal(minute) {
			continue
		}

		e.lastFired = minute
		matched = append(matched, e.alarm)
	}

	return matched
}
