// Package clockcore exposes the timekeeping core as one service: the
// alarm registry and scheduler, the stopwatch engine and the countdown
// timer behind the operation surface consumers call, plus the daemon
// entrypoint that provisions it from the settings file.
package clockcore
