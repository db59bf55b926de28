// Package schedule provides debounce and throttle primitives driven by an
// injected clock.
package schedule

import (
	"sync"
	"time"

	"newsfeed/internal/clock"
)

// DefaultSearchDelay is the quiet period applied to search input.
const DefaultSearchDelay = 500 * time.Millisecond

// Debouncer coalesces rapid Trigger calls into a single call of fn, made
// delay after the last Trigger with that Trigger's argument.
type Debouncer[T any] struct {
	mu    sync.Mutex
	clock clock.Clock
	delay time.Duration
	fn    func(T)
	timer clock.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer that calls fn.
func NewDebouncer[T any](clk clock.Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer[T]{clock: clk, delay: delay, fn: fn}
}

// Trigger schedules fn(arg), cancelling any call still pending.
func (d *Debouncer[T]) Trigger(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen, arg)
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) fire(gen uint64, arg T) {
	d.mu.Lock()
	// a real timer can fire after Stop lost the race; the generation check
	// discards such superseded calls
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}
