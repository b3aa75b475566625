package trigger

import (
	"context"

	"github.com/oshokin/deskclock/internal/logger"
)

// Dispatcher is the boundary the scheduler and the countdown watcher call
// into to produce side effects. Implementations must return without waiting
// for the side effects to complete.
type Dispatcher interface {
	Trigger(ctx context.Context, event Event)
}

// Adapter handles one kind of side effect for a trigger event.
type Adapter interface {
	// Name identifies the adapter in logs.
	Name() string
	// Handle performs the side effect. It may block; the dispatcher runs it
	// on its own goroutine.
	Handle(ctx context.Context, event Event) error
}

// Fanout dispatches each event to every adapter on its own goroutine.
// Failures and panics are confined to the offending adapter and logged,
// so a broken collaborator can never stall a tick loop or starve the
// other adapters.
type Fanout struct {
	adapters []Adapter
}

// NewFanout builds a dispatcher over the provided adapters. Nil adapters
// are skipped so callers can pass optional collaborators unconditionally.
func NewFanout(adapters ...Adapter) *Fanout {
	kept := make([]Adapter, 0, len(adapters))

	for _, a := range adapters {
		if a != nil {
			kept = append(kept, a)
		}
	}

	return &Fanout{adapters: kept}
}

// Trigger fans the event out and returns immediately.
func (f *Fanout) Trigger(ctx context.Context, event Event) {
	for _, a := range f.adapters {
		go f.dispatch(ctx, a, event)
	}
}

// dispatch runs a single adapter, confining its errors and panics.
func (f *Fanout) dispatch(ctx context.Context, adapter Adapter, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Trigger adapter panicked",
				"adapter", adapter.Name(), "kind", event.Kind, "panic", r)
		}
	}()

	if err := adapter.Handle(ctx, event); err != nil {
		logger.ErrorKV(ctx, "Trigger adapter failed",
			"adapter", adapter.Name(), "kind", event.Kind, "error", err)
	}
}
