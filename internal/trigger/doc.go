// Package trigger defines the dispatch boundary between the timekeeping
// core and its collaborators: the Event payload, the Dispatcher capability
// interface, and adapters for sound, voice, notifications and UI callbacks.
//
// Dispatch is asynchronous. The Fanout dispatcher returns before any side
// effect runs, and adapter failures never propagate back to the scheduler
// or the countdown watcher.
package trigger
