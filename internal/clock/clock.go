// ABOUTME: Clock and Scheduler abstractions over wall time.
// ABOUTME: Real is used in production; Fake drives virtual time in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs fn every interval until the returned stop function is called.
// A tick that is already in flight when stop is called may still run, so
// callers must tolerate one late invocation.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// Real uses the system clock and time.Ticker.
type Real struct{}

// Now returns the actual current time.
func (Real) Now() time.Time { return time.Now() }

// Every starts a ticker goroutine that calls fn on each tick.
func (Real) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
