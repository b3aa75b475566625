// Package alarm implements the wall-clock alarm registry and its
// scheduler: an ordered, mutex-guarded alarm collection whose first add
// starts a 1 Hz background scan and whose last removal stops it.
//
// Matching is guarded by a per-alarm last-fired-minute marker claimed
// atomically with the match, so an alarm fires at most once per matching
// minute no matter how often or how unevenly the loop ticks.
package alarm
