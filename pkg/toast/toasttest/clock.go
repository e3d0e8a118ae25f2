// Package toasttest provides a manual clock for testing code built on
// package toast.
//
// Example:
//
//	clock := toasttest.NewClock(time.Time{})
//	m := toast.New(toast.WithClock(clock))
//	m.Enqueue("Saved", toast.WithDuration(time.Second))
//	clock.Advance(time.Second) // the toast expires here
package toasttest

import (
	"sync"
	"time"
)

// Clock is a manually advanced clock. Tickers fire only inside Advance,
// synchronously, in the goroutine that calls Advance.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ticker
}

type ticker struct {
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewClock returns a clock set to start. A zero start uses a fixed date so
// timestamps stay readable.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Clock{now: start}
}

// Now returns the simulated time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every registers fn to run every interval of simulated time. The returned
// stop func removes the ticker immediately, so fn never runs after it.
func (c *Clock) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		panic("toasttest: non-positive ticker interval")
	}

	c.mu.Lock()
	t := &ticker{interval: interval, next: c.now.Add(interval), fn: fn}
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, other := range c.tickers {
			if other == t {
				c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
				return
			}
		}
	}
}

// Advance moves the clock forward by d, firing every tick that falls due
// in order. Ticks due at the same instant fire in registration order.
// Tickers started or stopped by a firing tick take effect immediately.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due *ticker
		for _, t := range c.tickers {
			if t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		c.mu.Unlock()

		fn()
	}
}

// Pending returns the number of registered tickers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}
