// Package clock abstracts monotonic time for the engine. The engine never
// calls the time package directly; production code injects the system
// clock and tests inject a Mock they advance by hand, which makes timer
// ordering and timeout behavior fully deterministic.
package clock

import "time"

// Clock provides the current time and timer channels to the engine.
type Clock interface {
	// Now returns the current time. Implementations must be monotonic:
	// successive calls never go backwards.
	Now() time.Time

	// After returns a channel that receives the current time once d has
	// elapsed. A non-positive d fires immediately.
	After(d time.Duration) <-chan time.Time
}

// systemClock defers to the time package.
type systemClock struct{}

// New returns the system clock.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
