package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/deskclock/internal/clockwork"
	"github.com/oshokin/deskclock/internal/logger"
	"github.com/oshokin/deskclock/internal/trigger"
)

const (
	// defaultTickInterval is the scan period while the scheduler runs.
	defaultTickInterval = time.Second
	// defaultStopTimeout bounds how long Stop waits for the loop to exit.
	defaultStopTimeout = 2 * time.Second
)

// Option configures the scheduler owned by a registry.
type Option func(*Scheduler)

// WithTickInterval overrides the scan period.
func WithTickInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.tickInterval = interval
		}
	}
}

// WithStopTimeout overrides the bound on waiting for the loop to exit.
func WithStopTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.stopTimeout = timeout
		}
	}
}

// WithClock injects a time source, used by tests.
func WithClock(clk clockwork.Clocker) Option {
	return func(s *Scheduler) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// Scheduler is the single background task that scans the registry and
// fires matching alarms. Its lifetime is tied to registry non-emptiness:
// the registry starts it on the first add and stops it when the last
// alarm is removed.
type Scheduler struct {
	registry   *Registry
	dispatcher trigger.Dispatcher

	tickInterval time.Duration
	stopTimeout  time.Duration
	clk          clockwork.Clocker

	// mu protects the running flag and the per-run channels.
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newScheduler wires a scheduler to its registry. It does not start it.
func newScheduler(registry *Registry, dispatcher trigger.Dispatcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry:     registry,
		dispatcher:   dispatcher,
		tickInterval: defaultTickInterval,
		stopTimeout:  defaultStopTimeout,
		clk:          clockwork.System(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the tick loop. It is a no-op while already running,
// and the scheduler can be restarted after a Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()

		return
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	logger.InfoKV(ctx, "Alarm scheduler started", "tick_interval", s.tickInterval)

	go s.run(ctx, stopCh, doneCh)
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Stop signals the loop and waits for it to exit, bounded by the stop
// timeout. A loop that fails to exit in time is abandoned so shutdown
// can proceed.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()

		return
	}

	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	select {
	case <-doneCh:
		logger.Info(ctx, "Alarm scheduler stopped")
	case <-time.After(s.stopTimeout):
		logger.Warnf(ctx, "Alarm scheduler did not stop within %s, abandoning it", s.stopTimeout)
	}
}

// run is the tick loop. A panic anywhere in a scan terminates only this
// task; it is logged so external supervision can restart the scheduler.
func (s *Scheduler) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()

			logger.ErrorKV(ctx, "Alarm scheduler panicked", "panic", r)
		}
	}()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan fires every alarm due at the current wall-clock time.
// The registry claims the per-minute marker under its lock before this
// method dispatches, so the dispatcher is never called with the lock held.
func (s *Scheduler) scan(ctx context.Context) {
	now := s.clk.Now()

	for _, matched := range s.registry.due(now) {
		logger.InfoKV(ctx, "Alarm fired",
			"id", matched.ID, "time", matched.TimeText(), "label", matched.Label)

		s.dispatcher.Trigger(ctx, trigger.NewAlarmEvent(&matched, now))
	}
}
