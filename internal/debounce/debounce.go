// Package debounce provides a trailing-edge debouncer: a cancellable delayed
// task where scheduling a new run always cancels the pending one first.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled function once the input has
// been quiet for the configured delay. It is safe for concurrent use.
type Debouncer struct {
	delay time.Duration
	mutex sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a debouncer with the given quiet interval
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet interval
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending run and schedules fn after the quiet interval.
func (d *Debouncer) Schedule(fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.delay, func() {
		d.mutex.Lock()
		// A timer that already fired cannot be stopped, so a superseded
		// callback has to notice it lost the race.
		if gen != d.gen {
			d.mutex.Unlock()
			return
		}
		d.timer = nil
		d.mutex.Unlock()

		fn()
	})
}

// Cancel drops the pending run, if any. It reports whether a run was pending.
func (d *Debouncer) Cancel() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	pending := d.timer != nil
	d.stopLocked()
	d.gen++
	return pending
}

// Pending reports whether a run is scheduled and has not fired yet
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.timer != nil
}

// stopLocked stops the current timer (must be called with lock held)
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
