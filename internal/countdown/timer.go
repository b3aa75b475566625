package countdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oshokin/deskclock/internal/clockwork"
	"github.com/oshokin/deskclock/internal/logger"
	"github.com/oshokin/deskclock/internal/trigger"
)

const (
	// defaultPollInterval is the completion-watcher poll period. It is
	// deliberately finer than the alarm scheduler's tick: UI response to
	// "finished" matters more than a wall-clock minute match.
	defaultPollInterval = 100 * time.Millisecond
	// defaultStopTimeout bounds how long Close waits for the watcher.
	defaultStopTimeout = 2 * time.Second
)

// ErrNonPositiveDuration rejects starting a timer with no time on it.
var ErrNonPositiveDuration = errors.New("timer duration must be positive")

// State is the countdown mode.
type State int

const (
	// StateIdle means no countdown is armed.
	StateIdle State = iota
	// StateRunning means the deadline is approaching.
	StateRunning
	// StatePaused means the remaining time is frozen.
	StatePaused
	// StateFinished means the watcher has dispatched completion.
	StateFinished
)

// Option configures a Timer.
type Option func(*Timer)

// WithPollInterval overrides the watcher poll period.
func WithPollInterval(interval time.Duration) Option {
	return func(t *Timer) {
		if interval > 0 {
			t.pollInterval = interval
		}
	}
}

// WithStopTimeout overrides the bound on waiting for the watcher on Close.
func WithStopTimeout(timeout time.Duration) Option {
	return func(t *Timer) {
		if timeout > 0 {
			t.stopTimeout = timeout
		}
	}
}

// WithClock injects a time source, used by tests.
func WithClock(clk clockwork.Clocker) Option {
	return func(t *Timer) {
		if clk != nil {
			t.clk = clk
		}
	}
}

// Timer is a one-shot countdown sharing the stopwatch's elapsed-time
// arithmetic but counting down. Each Start arms a watcher task that polls
// the remaining time and dispatches completion exactly once.
type Timer struct {
	dispatcher   trigger.Dispatcher
	clk          clockwork.Clocker
	pollInterval time.Duration
	stopTimeout  time.Duration

	mu           sync.Mutex
	state        State
	duration     time.Duration
	startInstant time.Time
	// pausedRemaining is authoritative only while paused.
	pausedRemaining time.Duration
	// watcher is the handle of the active watcher; completion and
	// cancellation are only honored for the current one, which is what
	// makes the one-shot dispatch exactly-once even across restarts.
	watcher *Watcher
}

// NewTimer creates an idle countdown dispatching completion to the
// provided dispatcher.
func NewTimer(dispatcher trigger.Dispatcher, opts ...Option) *Timer {
	t := &Timer{
		dispatcher:   dispatcher,
		clk:          clockwork.System(),
		pollInterval: defaultPollInterval,
		stopTimeout:  defaultStopTimeout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Watcher is the cancellable handle of one countdown run.
type Watcher struct {
	timer    *Timer
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Cancel stops the watcher and disarms the timer if this watcher is
// still the active one. It is safe to call more than once and observed
// within one poll interval.
func (w *Watcher) Cancel() {
	w.timer.cancel(w)
}

// Done is closed when the watcher task has exited, after completion
// dispatch or cancellation.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Start arms the countdown for the given duration and spawns its watcher.
// A timer that is already running is restarted: the previous watcher is
// canceled first. onComplete may be nil; when set it is invoked exactly
// once, after the completion event has been dispatched.
func (t *Timer) Start(
	ctx context.Context,
	duration time.Duration,
	onComplete func(),
) (*Watcher, error) {
	if duration <= 0 {
		return nil, ErrNonPositiveDuration
	}

	t.mu.Lock()
	// Cancel drops the lock, so another Start may have installed a new
	// watcher by the time it is reacquired. Re-check until none is left;
	// overwriting an uncancelled watcher would leak its polling task.
	for t.watcher != nil {
		previous := t.watcher
		t.mu.Unlock()
		previous.Cancel()
		t.mu.Lock()
	}

	w := &Watcher{
		timer:  t,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	t.state = StateRunning
	t.duration = duration
	t.startInstant = t.clk.Now()
	t.watcher = w
	t.mu.Unlock()

	logger.InfoKV(ctx, "Countdown started",
		"duration", duration, "poll_interval", t.pollInterval)

	go t.watch(ctx, w, onComplete)

	return w, nil
}

// Pause freezes the remaining time. It is a no-op unless running.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return
	}

	t.pausedRemaining = t.remainingLocked()
	t.state = StatePaused
}

// Resume continues a paused countdown by re-basing the start instant so
// the frozen remaining time is preserved.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return
	}

	elapsed := t.duration - t.pausedRemaining
	t.startInstant = t.clk.Now().Add(-elapsed)
	t.state = StateRunning
}

// Remaining returns the time left on the countdown, zero once finished
// or disarmed.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.remainingLocked()
}

// IsFinished reports whether the watcher has completed its one-time
// dispatch. It is false while running, paused, canceled or disarmed.
func (t *Timer) IsFinished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state == StateFinished
}

// State returns the current countdown mode.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Close cancels any active watcher and waits for it to exit, bounded by
// the stop timeout.
func (t *Timer) Close(ctx context.Context) {
	t.mu.Lock()
	w := t.watcher
	t.mu.Unlock()

	if w == nil {
		return
	}

	w.Cancel()

	select {
	case <-w.doneCh:
	case <-time.After(t.stopTimeout):
		logger.Warnf(ctx, "Countdown watcher did not stop within %s, abandoning it", t.stopTimeout)
	}
}

// remainingLocked computes the live remaining value. Callers hold t.mu.
func (t *Timer) remainingLocked() time.Duration {
	switch t.state {
	case StateRunning:
		remaining := t.duration - t.clk.Now().Sub(t.startInstant)
		if remaining < 0 {
			return 0
		}

		return remaining
	case StatePaused:
		return t.pausedRemaining
	default:
		return 0
	}
}

// cancel stops a watcher and, if it is still the active one, disarms
// the timer.
func (t *Timer) cancel(w *Watcher) {
	t.mu.Lock()
	if t.watcher == w {
		t.watcher = nil
		t.state = StateIdle
		t.duration = 0
		t.pausedRemaining = 0
	}
	t.mu.Unlock()

	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// watch polls the remaining time until completion or cancellation.
// A panic in the completion callback terminates only this task.
func (t *Timer) watch(ctx context.Context, w *Watcher, onComplete func()) {
	defer close(w.doneCh)
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Countdown watcher panicked", "panic", r)
		}
	}()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			logger.Info(ctx, "Countdown canceled")

			return
		case <-ticker.C:
			if !t.tryFinish(w) {
				continue
			}

			logger.Info(ctx, "Countdown finished")
			t.dispatcher.Trigger(ctx, trigger.NewTimerEvent(t.clk.Now()))

			if onComplete != nil {
				onComplete()
			}

			return
		}
	}
}

// tryFinish performs the terminal transition when the deadline has
// passed. It returns true for exactly one poll of exactly one watcher.
func (t *Timer) tryFinish(w *Watcher) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.watcher != w || t.state != StateRunning {
		return false
	}

	if t.remainingLocked() > 0 {
		return false
	}

	t.state = StateFinished
	t.watcher = nil

	return true
}
