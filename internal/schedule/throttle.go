package schedule

import (
	"sync"
	"time"

	"newsfeed/internal/clock"
)

// Throttle runs at most one call per interval. Calls made while the interval
// is open are dropped, not deferred.
type Throttle struct {
	mu       sync.Mutex
	clock    clock.Clock
	interval time.Duration
	until    time.Time
}

// NewThrottle returns a Throttle with the given interval.
func NewThrottle(clk clock.Clock, interval time.Duration) *Throttle {
	if clk == nil {
		clk = clock.New()
	}
	return &Throttle{clock: clk, interval: interval}
}

// Do runs fn unless a previous call is still inside its interval. It reports
// whether fn ran.
func (t *Throttle) Do(fn func()) bool {
	t.mu.Lock()
	now := t.clock.Now()
	if now.Before(t.until) {
		t.mu.Unlock()
		return false
	}
	t.until = now.Add(t.interval)
	t.mu.Unlock()

	fn()
	return true
}
