package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run after d and returns a handle that can
	// cancel the call before it fires
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled call that can be cancelled
type Timer interface {
	// Stop cancels the timer; reports whether it was still pending
	Stop() bool
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a real time.Timer
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
