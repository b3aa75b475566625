package clockwork

import "time"

// Clocker abstracts time so the schedulers and engines can replace
// real time in tests.
type Clocker interface {
	Now() time.Time
}

// SystemClock is the production clock backed by time.Now.
type SystemClock struct{}

// System returns a clock that reads the current system time.
func System() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time.
func (*SystemClock) Now() time.Time {
	return time.Now()
}
