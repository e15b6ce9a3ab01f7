package realtime

import (
	"sync"
	"time"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
)

// Throttle coalesces bursts of triggers into a single delayed call.
// The first Trigger after an idle period schedules fn to run once the delay
// elapses; further Triggers before then are no-ops. The pending flag clears
// only when the scheduled call actually runs, bounding fn to at most one
// execution per delay window.
type Throttle struct {
	clock clock.Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   clock.Timer
	pending bool
	stopped bool
}

// NewThrottle creates a throttle invoking fn at most once per delay
func NewThrottle(clk clock.Clock, delay time.Duration, fn func()) *Throttle {
	return &Throttle{
		clock: clk,
		delay: delay,
		fn:    fn,
	}
}

// Trigger requests a call to fn; coalesced while one is already pending
func (t *Throttle) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.pending {
		return
	}
	t.pending = true
	t.timer = t.clock.AfterFunc(t.delay, t.fire)
}

func (t *Throttle) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.mu.Unlock()

	t.fn()
}

// Pending reports whether a call is currently scheduled
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Stop cancels any pending call and disables the throttle
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
	}
}
