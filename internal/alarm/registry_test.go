package alarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/deskclock/internal/domain/clock"
	"github.com/oshokin/deskclock/internal/trigger"
)

// recordingDispatcher collects dispatched events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []trigger.Event
}

// Trigger implements trigger.Dispatcher.
func (d *recordingDispatcher) Trigger(_ context.Context, event trigger.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, event)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.events)
}

// TestRegistryAdd checks successful adds and the InvalidTimeFormat failure path.
func TestRegistryAdd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	id, err := r.Add(ctx, "09:00", "Wake", "chime", false)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	alarms := r.List()
	require.Len(t, alarms, 1)
	require.Equal(t, 9, alarms[0].Hour)
	require.Equal(t, 0, alarms[0].Minute)
	require.Equal(t, "Wake", alarms[0].Label)
	require.True(t, alarms[0].Enabled)

	// Empty label gets the default.
	_, err = r.Add(ctx, "10:15", "", "", true)
	require.NoError(t, err)
	require.Equal(t, clock.DefaultAlarmLabel, r.List()[1].Label)

	// Invalid time leaves the registry unchanged.
	before := r.Len()
	_, err = r.Add(ctx, "25:00", "x", "", false)
	require.ErrorIs(t, err, clock.ErrInvalidTimeFormat)
	require.Equal(t, before, r.Len())
}

// TestRegistryRemoveAndToggle checks id-based mutation and absence handling.
func TestRegistryRemoveAndToggle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	id, err := r.Add(ctx, "07:30", "Wake", "", false)
	require.NoError(t, err)

	// Toggling twice round-trips the enabled flag.
	require.True(t, r.Toggle(ctx, id))
	require.False(t, r.List()[0].Enabled)
	require.True(t, r.Toggle(ctx, id))
	require.True(t, r.List()[0].Enabled)

	// Unknown ids report false.
	require.False(t, r.Toggle(ctx, uuid.New()))
	require.False(t, r.Remove(ctx, uuid.New()))

	require.True(t, r.Remove(ctx, id))
	require.Zero(t, r.Len())
	require.False(t, r.Remove(ctx, id))
}

// TestRegistryLifecycleDrivesScheduler ties scheduler state to registry emptiness.
func TestRegistryLifecycleDrivesScheduler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher), WithStopTimeout(time.Second))

	require.False(t, r.scheduler.Running())

	id, err := r.Add(ctx, "06:00", "", "", false)
	require.NoError(t, err)
	require.True(t, r.scheduler.Running())

	require.True(t, r.Remove(ctx, id))
	require.False(t, r.scheduler.Running())

	// Clear also stops it.
	_, err = r.Add(ctx, "06:00", "", "", false)
	require.NoError(t, err)
	_, err = r.Add(ctx, "07:00", "", "", false)
	require.NoError(t, err)
	require.True(t, r.scheduler.Running())

	r.Clear(ctx)
	require.Zero(t, r.Len())
	require.False(t, r.scheduler.Running())
}

// TestRegistryListIsASnapshot proves mutating the returned slice cannot
// reach registry state.
func TestRegistryListIsASnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	_, err := r.Add(ctx, "08:00", "Wake", "", false)
	require.NoError(t, err)

	snapshot := r.List()
	snapshot[0].Enabled = false
	snapshot[0].Label = "changed"

	fresh := r.List()
	require.True(t, fresh[0].Enabled)
	require.Equal(t, "Wake", fresh[0].Label)
}

// TestDueFiresAtMostOncePerMinute drives repeated ticks through one
// matching minute and across a minute boundary.
func TestDueFiresAtMostOncePerMinute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	_, err := r.Add(ctx, "09:30", "Meeting", "", false)
	require.NoError(t, err)

	base := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

	// Many ticks inside the same minute, at uneven seconds.
	require.Len(t, r.due(base), 1)

	for _, offset := range []time.Duration{
		time.Second, 7 * time.Second, 59 * time.Second,
	} {
		require.Empty(t, r.due(base.Add(offset)), offset)
	}

	// A non-matching minute fires nothing.
	require.Empty(t, r.due(base.Add(time.Minute)))

	// The same wall-clock minute a day later fires again.
	require.Len(t, r.due(base.Add(24*time.Hour)), 1)
}

// TestDueSkipsDisabledAlarms leaves the marker untouched for disabled alarms.
func TestDueSkipsDisabledAlarms(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	id, err := r.Add(ctx, "09:30", "Meeting", "", false)
	require.NoError(t, err)
	require.True(t, r.Toggle(ctx, id))

	base := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	require.Empty(t, r.due(base))

	// Re-enabled inside the same minute: still fires only once.
	require.True(t, r.Toggle(ctx, id))
	require.Len(t, r.due(base.Add(5*time.Second)), 1)
	require.Empty(t, r.due(base.Add(10*time.Second)))
}

// TestDuePreservesInsertionOrder fires same-minute alarms in add order.
func TestDuePreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher))

	defer r.Close(ctx)

	for _, label := range []string{"first", "second", "third"} {
		_, err := r.Add(ctx, "12:00", label, "", false)
		require.NoError(t, err)
	}

	matched := r.due(time.Date(2026, time.March, 2, 12, 0, 30, 0, time.UTC))
	require.Len(t, matched, 3)
	require.Equal(t, "first", matched[0].Label)
	require.Equal(t, "second", matched[1].Label)
	require.Equal(t, "third", matched[2].Label)
}

// TestRegistryLifecycleUnderContention races removing the last alarm
// against adding a fresh one, over and over, and verifies the scheduler
// always matches registry emptiness once both mutations have landed. An
// interleaving that decided start/stop on a stale emptiness check would
// eventually strand a populated registry with a stopped scheduler.
func TestRegistryLifecycleUnderContention(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher),
		WithTickInterval(time.Millisecond),
		WithStopTimeout(time.Second),
	)

	defer r.Close(ctx)

	id, err := r.Add(ctx, "04:00", "seed", "", false)
	require.NoError(t, err)

	for n := 0; n < 200; n++ {
		var wg sync.WaitGroup

		nextID := make(chan clock.AlarmID, 1)

		wg.Add(2)

		go func() {
			defer wg.Done()

			r.Remove(ctx, id)
		}()

		go func() {
			defer wg.Done()

			added, addErr := r.Add(ctx, "04:00", "replacement", "", false)
			require.NoError(t, addErr)

			nextID <- added
		}()

		wg.Wait()

		require.Equal(t, 1, r.Len())
		require.True(t, r.scheduler.Running())

		id = <-nextID
	}
}

// TestRegistryConcurrentMutation hammers the registry from several
// goroutines while snapshotting and due-scanning, relying on the race
// detector and on snapshot integrity checks.
func TestRegistryConcurrentMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry(new(recordingDispatcher), WithTickInterval(time.Millisecond))

	defer r.Close(ctx)

	const workers = 8

	var writers, reader sync.WaitGroup

	stop := make(chan struct{})

	for w := 0; w < workers; w++ {
		writers.Add(1)

		go func() {
			defer writers.Done()

			for i := 0; i < 50; i++ {
				id, err := r.Add(ctx, "11:11", "spin", "", i%2 == 0)
				require.NoError(t, err)

				r.Toggle(ctx, id)

				if i%3 == 0 {
					r.Remove(ctx, id)
				}
			}
		}()
	}

	reader.Add(1)

	go func() {
		defer reader.Done()

		for {
			select {
			case <-stop:
				return
			default:
			}

			// A snapshot is never torn: every entry is fully formed.
			for _, a := range r.List() {
				require.Equal(t, 11, a.Hour)
				require.Equal(t, 11, a.Minute)
				require.NotEqual(t, uuid.Nil, a.ID)
			}

			r.due(time.Now())
		}
	}()

	writers.Wait()
	close(stop)
	reader.Wait()
}
