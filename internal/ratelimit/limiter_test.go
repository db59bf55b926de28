package ratelimit_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsfeed/internal/clock"
	"newsfeed/internal/ratelimit"
)

func newLimiter() (*ratelimit.Limiter, *clock.Fake) {
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	return ratelimit.New(10, 5*time.Second, clk), clk
}

func TestFirstCallForUnseenKeySucceeds(t *testing.T) {
	l, _ := newLimiter()
	require.True(t, l.Allow("fetchNews"))
}

func TestLimitWithinWindow(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("fetchNews"), "call %d", i+1)
		clk.Advance(100 * time.Millisecond)
	}
	require.False(t, l.Allow("fetchNews"))
}

func TestAdmitsAgainAfterWindow(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("k"))
	}
	require.False(t, l.Allow("k"))

	clk.Advance(4999 * time.Millisecond)
	require.False(t, l.Allow("k"))

	clk.Advance(time.Millisecond)
	require.True(t, l.Allow("k"))
}

func TestSlidingWindowReleasesOneAtATime(t *testing.T) {
	l, clk := newLimiter()

	require.True(t, l.Allow("k"))
	clk.Advance(time.Second)
	for i := 0; i < 9; i++ {
		require.True(t, l.Allow("k"))
	}
	require.False(t, l.Allow("k"))

	// only the first call has aged out
	clk.Advance(4 * time.Second)
	require.True(t, l.Allow("k"))
	require.False(t, l.Allow("k"))
}

func TestDeniedCallsAreNotRecorded(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("k"))
	}
	for i := 0; i < 50; i++ {
		clk.Advance(10 * time.Millisecond)
		require.False(t, l.Allow("k"))
	}

	clk.Advance(5*time.Second - 500*time.Millisecond)
	require.True(t, l.Allow("k"))
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newLimiter()

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("a"))
	}
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
}

func TestCheckReportsRemainingAndRetryAfter(t *testing.T) {
	l, clk := newLimiter()

	d := l.Check("k")
	require.True(t, d.Allowed)
	require.Equal(t, 9, d.Remaining)

	clk.Advance(2 * time.Second)
	for i := 0; i < 9; i++ {
		require.True(t, l.Allow("k"))
	}

	d = l.Check("k")
	require.False(t, d.Allowed)
	require.Equal(t, 3*time.Second, d.RetryAfter)
}

func TestReset(t *testing.T) {
	l, _ := newLimiter()
	for i := 0; i < 10; i++ {
		l.Allow("k")
	}
	require.False(t, l.Allow("k"))

	l.Reset("k")
	require.True(t, l.Allow("k"))
}

func TestDefaults(t *testing.T) {
	l := ratelimit.New(0, 0, nil)
	require.Equal(t, ratelimit.DefaultLimit, l.Limit())
	require.Equal(t, ratelimit.DefaultWindow, l.Window())
}

func TestConcurrentCallersShareWindow(t *testing.T) {
	l, _ := newLimiter()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, allowed)
}

func TestIdleKeysAreDropped(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 1000; i++ {
		require.True(t, l.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256)))
	}
	require.Equal(t, 1000, l.Keys())

	clk.Advance(time.Hour)
	require.True(t, l.Allow("10.9.9.9"))
	require.Equal(t, 1, l.Keys())
}

func TestSweepKeepsKeysInsideWindow(t *testing.T) {
	l, clk := newLimiter()

	require.True(t, l.Allow("old"))
	clk.Advance(3 * time.Second)
	require.True(t, l.Allow("recent"))
	clk.Advance(2 * time.Second)

	require.True(t, l.Allow("new"))
	require.Equal(t, 2, l.Keys())

	for i := 0; i < 9; i++ {
		require.True(t, l.Allow("recent"), "call %d", i+2)
	}
	require.False(t, l.Allow("recent"))
}
