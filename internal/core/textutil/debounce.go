package textutil

import (
	"sync"
	"time"
)

// Debounce returns a function that delays calling fn until delay has passed
// without another call. Only the argument of the last call is delivered.
// stop cancels any pending call.
func Debounce[T any](fn func(T), delay time.Duration) (call func(T), stop func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	call = func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() { fn(arg) })
	}

	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return call, stop
}
