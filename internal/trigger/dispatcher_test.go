package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/deskclock/internal/domain/clock"
)

var errAdapterBroken = errors.New("adapter broken")

// recordingAdapter counts Handle calls and optionally fails or panics.
type recordingAdapter struct {
	mu      sync.Mutex
	calls   int
	events  []Event
	fail    bool
	panics  bool
	done    chan struct{}
	blockMu sync.Mutex
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{done: make(chan struct{}, 16)}
}

// Name implements Adapter.
func (*recordingAdapter) Name() string { return "recording" }

// Handle implements Adapter.
func (r *recordingAdapter) Handle(_ context.Context, event Event) error {
	r.mu.Lock()
	r.calls++
	r.events = append(r.events, event)
	r.mu.Unlock()

	defer func() { r.done <- struct{}{} }()

	if r.panics {
		panic("boom")
	}

	if r.fail {
		return errAdapterBroken
	}

	return nil
}

func (r *recordingAdapter) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

func (r *recordingAdapter) wait(t *testing.T) {
	t.Helper()

	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("adapter was not invoked")
	}
}

// TestFanoutDeliversToAllAdapters checks that one Trigger reaches every adapter.
func TestFanoutDeliversToAllAdapters(t *testing.T) {
	t.Parallel()

	first, second := newRecordingAdapter(), newRecordingAdapter()
	fanout := NewFanout(first, second, nil)

	alarm := &clock.Alarm{Hour: 9, Minute: 0, Label: "Wake", VoiceEnabled: true}
	fanout.Trigger(context.Background(), NewAlarmEvent(alarm, time.Now()))

	first.wait(t)
	second.wait(t)

	require.Equal(t, 1, first.callCount())
	require.Equal(t, 1, second.callCount())
	require.Equal(t, "Wake - 09:00", first.events[0].Message)
}

// TestFanoutConfinesFailures proves a failing or panicking adapter does not
// stop delivery to the remaining adapters.
func TestFanoutConfinesFailures(t *testing.T) {
	t.Parallel()

	broken := newRecordingAdapter()
	broken.fail = true

	panicky := newRecordingAdapter()
	panicky.panics = true

	healthy := newRecordingAdapter()

	fanout := NewFanout(broken, panicky, healthy)
	fanout.Trigger(context.Background(), NewTimerEvent(time.Now()))

	broken.wait(t)
	panicky.wait(t)
	healthy.wait(t)

	require.Equal(t, 1, healthy.callCount())
}

// TestFanoutTriggerDoesNotBlock verifies Trigger returns even while an
// adapter is still busy.
func TestFanoutTriggerDoesNotBlock(t *testing.T) {
	t.Parallel()

	slow := newRecordingAdapter()
	slow.blockMu.Lock()

	blocking := adapterFunc(func(ctx context.Context, event Event) error {
		slow.blockMu.Lock()
		defer slow.blockMu.Unlock()

		return slow.Handle(ctx, event)
	})

	fanout := NewFanout(blocking)

	start := time.Now()
	fanout.Trigger(context.Background(), NewTimerEvent(time.Now()))
	require.Less(t, time.Since(start), 100*time.Millisecond)

	slow.blockMu.Unlock()
	slow.wait(t)
}

// adapterFunc adapts a bare function into an Adapter for tests.
type adapterFunc func(ctx context.Context, event Event) error

// Name implements Adapter.
func (adapterFunc) Name() string { return "func" }

// Handle implements Adapter.
func (f adapterFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// TestVoiceAdapterHonorsFlag ensures voice announcements only fire when requested.
func TestVoiceAdapterHonorsFlag(t *testing.T) {
	t.Parallel()

	var spoken []string

	speaker := speakerFunc(func(_ context.Context, text string) error {
		spoken = append(spoken, text)

		return nil
	})

	adapter := NewVoiceAdapter(speaker)

	silent := NewAlarmEvent(&clock.Alarm{Hour: 7, Minute: 5, Label: "Quiet"}, time.Now())
	require.NoError(t, adapter.Handle(context.Background(), silent))
	require.Empty(t, spoken)

	loud := NewAlarmEvent(
		&clock.Alarm{Hour: 7, Minute: 5, Label: "Wake", VoiceEnabled: true}, time.Now())
	require.NoError(t, adapter.Handle(context.Background(), loud))
	require.Equal(t, []string{"Alarm Wake. The time is 07 05"}, spoken)
}

// speakerFunc adapts a bare function into a VoiceSpeaker for tests.
type speakerFunc func(ctx context.Context, text string) error

// Speak implements VoiceSpeaker.
func (f speakerFunc) Speak(ctx context.Context, text string) error { return f(ctx, text) }

// TestNilCollaboratorsProduceNilAdapters keeps wiring unconditional at call sites.
func TestNilCollaboratorsProduceNilAdapters(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewSoundAdapter(nil))
	require.Nil(t, NewVoiceAdapter(nil))
	require.Nil(t, NewNotifyAdapter(nil))
	require.Nil(t, NewCallbackAdapter(nil))
}
