package toast

import (
	"sync"
	"time"
)

// Clock is the time source of a Manager.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Every calls fn every interval until the returned stop func is called.
	// Calls for one registration never overlap. Stop must not block and
	// must be safe to call more than once.
	Every(interval time.Duration, fn func()) (stop func())
}

// SystemClock is the wall clock, backed by time.Ticker.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Every starts a goroutine that calls fn on every tick.
//
// A tick that was already delivered when stop is called may still run fn
// once; the Manager re-checks liveness in that case.
func (SystemClock) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
