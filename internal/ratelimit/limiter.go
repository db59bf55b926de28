// Package ratelimit implements a per-key sliding-window rate limiter.
package ratelimit

import (
	"sync"
	"time"

	"newsfeed/internal/clock"
)

const (
	// DefaultLimit is the number of calls admitted per window.
	DefaultLimit = 10
	// DefaultWindow is the trailing window length.
	DefaultWindow = 5 * time.Second
)

// Decision describes the outcome of a Check.
type Decision struct {
	Allowed bool
	// Remaining is the number of calls still admissible in the current window.
	Remaining int
	// RetryAfter is how long until the oldest recorded call leaves the
	// window. Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter admits at most limit calls per key within any trailing window.
// Only admitted calls are recorded; denied attempts do not extend the window.
type Limiter struct {
	mu     sync.Mutex
	clock  clock.Clock
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	// swept is when idle keys were last dropped.
	swept  time.Time
}

// New creates a Limiter. Non-positive limit or window fall back to the defaults.
func New(limit int, window time.Duration, clk clock.Clock) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Limiter{
		clock:  clk,
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		swept:  clk.Now(),
	}
}

// Allow reports whether a call for key may proceed, recording it if so.
func (l *Limiter) Allow(key string) bool {
	return l.Check(key).Allowed
}

// Check prunes timestamps that fell out of the window and admits the call if
// fewer than limit remain. Keys with no calls left in the window are dropped,
// at most once per window for keys that are not checked again.
func (l *Limiter) Check(key string) Decision {
	now := l.clock.Now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) >= l.window {
		l.sweep(windowStart)
		l.swept = now
	}

	times := l.hits[key]
	drop := 0
	for drop < len(times) && !times[drop].After(windowStart) {
		drop++
	}
	times = times[drop:]
	if len(times) == 0 {
		delete(l.hits, key)
		times = nil
	}

	if len(times) >= l.limit {
		l.hits[key] = times
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: times[0].Sub(windowStart),
		}
	}

	times = append(times, now)
	l.hits[key] = times
	return Decision{Allowed: true, Remaining: l.limit - len(times)}
}

// sweep drops every key whose newest call left the window.
func (l *Limiter) sweep(windowStart time.Time) {
	for key, times := range l.hits {
		if len(times) == 0 || !times[len(times)-1].After(windowStart) {
			delete(l.hits, key)
		}
	}
}

// Keys returns the number of keys with calls inside the window.
func (l *Limiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// Limit returns the per-window capacity.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Reset forgets all recorded calls for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
}
