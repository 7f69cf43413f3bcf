package poller

import (
	"sync"
	"time"
)

// ScheduledTask runs at most one function after a delay. Scheduling again
// replaces the pending run; a cancelled run never fires, even if its timer
// had already expired.
type ScheduledTask struct {
	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// Schedule arms fn to run once after delay, replacing any pending run.
func (t *ScheduledTask) Schedule(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.seq++
	seq := t.seq
	t.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		if t.seq != seq || t.timer == nil {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending run, if any.
func (t *ScheduledTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pending reports whether a run is armed and has not fired.
func (t *ScheduledTask) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *ScheduledTask) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
}
