package timer

import (
	"sync"
	"time"
)

// Timer is a cancelable one-shot delay. At most one of its callback or a
// Stop call takes effect, even under concurrent use.
type Timer struct {
	mu      sync.Mutex
	t       *time.Timer
	fired   bool
	stopped bool
}

// AfterFunc schedules fn to run after d unless the Timer is stopped first.
// fn runs on its own goroutine, as with time.AfterFunc.
func AfterFunc(d time.Duration, fn func()) *Timer {
	timer := &Timer{}
	timer.t = time.AfterFunc(d, func() {
		timer.mu.Lock()
		if timer.stopped {
			timer.mu.Unlock()
			return
		}
		timer.fired = true
		timer.mu.Unlock()
		fn()
	})
	return timer
}

// Stop prevents fn from running if it hasn't already started. It reports
// whether the stop was effective — false means fn either already ran or is
// running concurrently with this call.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired {
		return false
	}
	t.stopped = true
	return t.t.Stop()
}

// Fired reports whether fn has started running.
func (t *Timer) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
