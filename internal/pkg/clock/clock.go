package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped a pending
	// callback; a stopped timer never fires again.
	Stop() bool
}

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc runs f once after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f repeatedly, once per d, until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// TimeClocker is the production clock implementation backed by the time package.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (*TimeClocker) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every starts a ticker goroutine that calls f on each tick.
func (*TimeClocker) Every(d time.Duration, f func()) Timer {
	t := &ticker{done: make(chan struct{})}
	tk := time.NewTicker(d)

	go func() {
		defer tk.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-tk.C:
				// a Stop racing with the tick wins
				select {
				case <-t.done:
					return
				default:
				}
				f()
			}
		}
	}()

	return t
}

type ticker struct {
	once sync.Once
	done chan struct{}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.done)
		stopped = true
	})
	return stopped
}
