package poller

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledTaskRunsOnce(t *testing.T) {
	var task ScheduledTask
	var runs atomic.Int32

	task.Schedule(10*time.Millisecond, func() { runs.Add(1) })
	assert.True(t, task.Pending())

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, task.Pending())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduledTaskReplace(t *testing.T) {
	var task ScheduledTask
	var first, second atomic.Int32

	task.Schedule(20*time.Millisecond, func() { first.Add(1) })
	task.Schedule(20*time.Millisecond, func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestScheduledTaskCancel(t *testing.T) {
	var task ScheduledTask
	var runs atomic.Int32

	task.Schedule(10*time.Millisecond, func() { runs.Add(1) })
	task.Cancel()
	assert.False(t, task.Pending())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load())

	// cancel without a pending run is harmless
	task.Cancel()
}
