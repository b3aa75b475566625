package stopwatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/deskclock/internal/clockwork"
)

// State is the stopwatch mode. A single enumeration replaces separate
// running/paused flags so no invalid combination can be represented.
type State int

const (
	// StateIdle means the stopwatch is reset and not accumulating.
	StateIdle State = iota
	// StateRunning means elapsed time is actively accumulating.
	StateRunning
	// StatePaused means accumulation is frozen at the stored elapsed value.
	StatePaused
)

// String renders the state for logs and errors.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Engine is a pausable elapsed-time accumulator with lap recording.
// It spawns no background task: elapsed time is computed on demand from
// the start instant, and all state is guarded by one mutex so UI reads
// and control calls can come from any goroutine.
type Engine struct {
	mu sync.Mutex

	clk          clockwork.Clocker
	state        State
	startInstant time.Time
	// elapsed is authoritative only while not running; while running the
	// current value is clk.Now() minus startInstant.
	elapsed time.Duration
	laps    []time.Duration
}

// NewEngine creates an idle stopwatch reading time from the system clock.
func NewEngine() *Engine {
	return NewEngineWithClock(clockwork.System())
}

// NewEngineWithClock creates an idle stopwatch with an injected time source.
func NewEngineWithClock(clk clockwork.Clocker) *Engine {
	return &Engine{clk: clk}
}

// Start begins or resumes accumulation.
// From idle it starts at zero; from paused it continues from the stored
// elapsed value by back-dating the start instant. Starting a running
// stopwatch is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateRunning:
		return
	case StateIdle:
		e.elapsed = 0
		e.startInstant = e.clk.Now()
	case StatePaused:
		e.startInstant = e.clk.Now().Add(-e.elapsed)
	}

	e.state = StateRunning
}

// Pause freezes accumulation. It is a no-op unless running.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}

	e.elapsed = e.clk.Now().Sub(e.startInstant)
	e.state = StatePaused
}

// Stop resets the stopwatch to idle from any state, clearing the elapsed
// time and the recorded laps.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateIdle
	e.elapsed = 0
	e.startInstant = time.Time{}
	e.laps = nil
}

// Elapsed returns the accumulated time.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.elapsedLocked()
}

// State returns the current mode.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// AddLap records the current elapsed time as a lap and returns it.
// Laps can only be taken while running; otherwise ok is false.
func (e *Engine) AddLap() (lap time.Duration, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return 0, false
	}

	lap = e.elapsedLocked()
	e.laps = append(e.laps, lap)

	return lap, true
}

// Laps returns a copy of the recorded laps in recording order.
func (e *Engine) Laps() []time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	laps := make([]time.Duration, len(e.laps))
	copy(laps, e.laps)

	return laps
}

// elapsedLocked computes the live elapsed value. Callers hold e.mu.
func (e *Engine) elapsedLocked() time.Duration {
	if e.state == StateRunning {
		return e.clk.Now().Sub(e.startInstant)
	}

	return e.elapsed
}

// Format renders seconds as "MM:SS.ss". Minutes grow past 59 instead of
// wrapping, so 3661.75 seconds prints as "61:01.75".
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	minutes := int(seconds) / 60
	remainder := seconds - float64(minutes)*60

	return fmt.Sprintf("%02d:%05.2f", minutes, remainder)
}

// FormatDuration renders a duration with the same rules as Format.
func FormatDuration(d time.Duration) string {
	return Format(d.Seconds())
}
