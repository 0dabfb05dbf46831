package async

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of triggers into one delayed call. The last
// function passed to Trigger wins. It is owned by whatever service schedules
// the work, with explicit Cancel/Close semantics instead of a timer tied to
// a UI render cycle.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	fn     func()
	closed bool
}

// NewDebouncer creates a debouncer firing delay after the last trigger.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the debounce delay, replacing any
// previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	closed := d.closed
	d.mu.Unlock()

	if fn != nil && !closed {
		fn()
	}
}

// Flush runs any pending call immediately instead of waiting out the delay.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	closed := d.closed
	d.mu.Unlock()

	if fn != nil && !closed {
		fn()
	}
}

// Cancel drops any pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close cancels pending work and refuses further triggers. A timer that
// already popped will find closed set and do nothing.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
