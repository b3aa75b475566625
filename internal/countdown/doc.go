// Package countdown implements the one-shot countdown timer: the same
// offset arithmetic as the stopwatch, counting down, plus a cancellable
// watcher task that polls the remaining time and dispatches completion
// exactly once.
package countdown
