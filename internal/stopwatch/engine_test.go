package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/deskclock/internal/clockwork"
)

// TestFormat checks the MM:SS.ss rendering, including unwrapped minutes.
func TestFormat(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:       "00:00.00",
		30.5:    "00:30.50",
		65.25:   "01:05.25",
		3661.75: "61:01.75",
		-5:      "00:00.00",
	}
	for seconds, want := range cases {
		require.Equal(t, want, Format(seconds), "%v seconds", seconds)
	}

	require.Equal(t, "01:30.00", FormatDuration(90*time.Second))
}

// TestEngineTransitions walks the Idle/Running/Paused state machine with
// a fake clock, covering the pause/resume offset arithmetic.
func TestEngineTransitions(t *testing.T) {
	t.Parallel()

	clk := clockwork.NewFake(time.Unix(1000, 0))
	e := NewEngineWithClock(clk)

	require.Equal(t, StateIdle, e.State())
	require.Zero(t, e.Elapsed())

	e.Start()
	require.Equal(t, StateRunning, e.State())

	clk.Advance(300 * time.Millisecond)
	require.Equal(t, 300*time.Millisecond, e.Elapsed())

	// Starting while running is a no-op and keeps the accumulated time.
	e.Start()
	require.Equal(t, 300*time.Millisecond, e.Elapsed())

	e.Pause()
	require.Equal(t, StatePaused, e.State())

	// Time passing while paused changes nothing.
	clk.Advance(300 * time.Millisecond)
	require.Equal(t, 300*time.Millisecond, e.Elapsed())

	// Resume continues from the stored value.
	e.Start()
	clk.Advance(200 * time.Millisecond)
	require.Equal(t, 500*time.Millisecond, e.Elapsed())

	// Stop resets everything from any state.
	e.Stop()
	require.Equal(t, StateIdle, e.State())
	require.Zero(t, e.Elapsed())

	// Pause is only legal from running.
	e.Pause()
	require.Equal(t, StateIdle, e.State())

	// Starting from idle begins at zero again.
	e.Start()
	clk.Advance(50 * time.Millisecond)
	require.Equal(t, 50*time.Millisecond, e.Elapsed())
}

// TestEngineRealClock exercises the system clock path with tolerances.
func TestEngineRealClock(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.Start()
	time.Sleep(100 * time.Millisecond)
	e.Pause()

	elapsed := e.Elapsed()
	require.InDelta(t, 100*time.Millisecond, elapsed, float64(50*time.Millisecond))

	// Paused time does not accumulate.
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, elapsed, e.Elapsed())
}

// TestEngineLaps records laps only while running and clears them on stop.
func TestEngineLaps(t *testing.T) {
	t.Parallel()

	clk := clockwork.NewFake(time.Unix(2000, 0))
	e := NewEngineWithClock(clk)

	// No laps outside running.
	_, ok := e.AddLap()
	require.False(t, ok)

	e.Start()
	clk.Advance(time.Second)

	lap, ok := e.AddLap()
	require.True(t, ok)
	require.Equal(t, time.Second, lap)

	clk.Advance(2 * time.Second)

	lap, ok = e.AddLap()
	require.True(t, ok)
	require.Equal(t, 3*time.Second, lap)

	require.Equal(t, []time.Duration{time.Second, 3 * time.Second}, e.Laps())

	// Laps are not recordable while paused.
	e.Pause()
	_, ok = e.AddLap()
	require.False(t, ok)

	// The returned slice is a copy.
	laps := e.Laps()
	laps[0] = 0
	require.Equal(t, time.Second, e.Laps()[0])

	// Stop clears the lap history.
	e.Stop()
	require.Empty(t, e.Laps())
}
