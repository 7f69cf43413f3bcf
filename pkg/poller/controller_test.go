package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webslayer-go/pkg/models"
)

const testInterval = 10 * time.Millisecond

// fakeFetcher serves scripted statuses per job; the last entry repeats.
type fakeFetcher struct {
	mu          sync.Mutex
	scripts     map[string][]statusResult
	statusCalls map[string]int
	reportCalls map[string]int
	reports     map[string]*models.Report
	reportErr   error
	// block holds status requests for these job ids until their context ends
	block map[string]bool
}

type statusResult struct {
	resp *models.JobStatusResponse
	err  error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		scripts:     make(map[string][]statusResult),
		statusCalls: make(map[string]int),
		reportCalls: make(map[string]int),
		reports:     make(map[string]*models.Report),
		block:       make(map[string]bool),
	}
}

func (f *fakeFetcher) script(jobID string, results ...statusResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[jobID] = results
}

func status(s models.JobStatus) statusResult {
	return statusResult{resp: &models.JobStatusResponse{Status: s}}
}

func success(report string) statusResult {
	return statusResult{resp: &models.JobStatusResponse{Status: models.JobStatusSuccess, ReportName: report}}
}

func (f *fakeFetcher) GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	f.mu.Lock()
	n := f.statusCalls[jobID]
	f.statusCalls[jobID] = n + 1
	blocked := f.block[jobID]
	script := f.scripts[jobID]
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if len(script) == 0 {
		return &models.JobStatusResponse{Status: models.JobStatusPending}, nil
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n].resp, script[n].err
}

func (f *fakeFetcher) GetReport(ctx context.Context, name string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCalls[name]++
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	r, ok := f.reports[name]
	if !ok {
		return nil, errors.New("report not found")
	}
	return r, nil
}

func (f *fakeFetcher) calls(jobID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[jobID]
}

func (f *fakeFetcher) reportFetches(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reportCalls[name]
}

// recorder collects every snapshot delivered to OnChange.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func newController(t *testing.T, f Fetcher) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(f, Options{Interval: testInterval, OnChange: rec.record})
	t.Cleanup(c.Close)
	return c, rec
}

func waitForState(t *testing.T, c *Controller, want State) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool { return c.Snapshot().State == want }, 2*time.Second, 2*time.Millisecond,
		"controller never reached %s, last snapshot %+v", want, c.Snapshot())
	return c.Snapshot()
}

func TestControllerHappyPath(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending), success("rep1"))
	f.reports["rep1"] = &models.Report{Name: "rep1", Content: json.RawMessage(`{"title":"x"}`)}

	c, rec := newController(t, f)
	assert.Equal(t, StateIdle, c.Snapshot().State)

	c.SetJob("abc")
	snap := waitForState(t, c, StateSucceeded)

	assert.Equal(t, "abc", snap.JobID)
	assert.Equal(t, models.JobStatusSuccess, snap.Status)
	assert.Equal(t, "rep1", snap.ReportName)
	require.NotNil(t, snap.Report)
	assert.JSONEq(t, `{"title":"x"}`, string(snap.Report.Content))
	assert.Equal(t, 2, snap.Polls)

	states := make([]State, 0)
	for _, s := range rec.all() {
		states = append(states, s.State)
	}
	assert.Equal(t, []State{StateLoading, StatePolling, StateLoading, StateSucceeded}, states)
}

func TestControllerStopsAfterTerminal(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", success("rep1"))
	f.reports["rep1"] = &models.Report{Name: "rep1"}

	c, rec := newController(t, f)
	c.SetJob("abc")
	waitForState(t, c, StateSucceeded)

	time.Sleep(5 * testInterval)
	assert.Equal(t, 1, f.calls("abc"))
	assert.Equal(t, 1, f.reportFetches("rep1"), "report fetched exactly once")
	assert.False(t, c.task.Pending())

	n := len(rec.all())
	time.Sleep(3 * testInterval)
	assert.Len(t, rec.all(), n, "no transitions after a terminal state")
}

func TestControllerFailedStatus(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending),
		statusResult{resp: &models.JobStatusResponse{Status: models.JobStatusFailed, Error: "LLM unavailable"}})

	c, _ := newController(t, f)
	c.SetJob("abc")
	snap := waitForState(t, c, StateFailed)
	assert.Equal(t, "LLM unavailable", snap.Error)

	time.Sleep(5 * testInterval)
	assert.Equal(t, 2, f.calls("abc"))
}

func TestControllerSuccessWithoutReport(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", success(""))

	c, _ := newController(t, f)
	c.SetJob("abc")
	snap := waitForState(t, c, StateFailed)

	assert.Equal(t, ErrMissingReport.Error(), snap.Error)
	f.mu.Lock()
	assert.Empty(t, f.reportCalls)
	f.mu.Unlock()
}

func TestControllerUnknownStatus(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status("exploded"))

	c, _ := newController(t, f)
	c.SetJob("abc")
	snap := waitForState(t, c, StateFailed)
	assert.Equal(t, `unexpected job status "exploded"`, snap.Error)
}

type userErr struct{}

func (userErr) Error() string       { return "network: dial tcp: refused" }
func (userErr) UserMessage() string { return "Backend service unavailable." }

func TestControllerTransportErrorIsTerminal(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending), statusResult{err: userErr{}}, status(models.JobStatusPending))

	c, _ := newController(t, f)
	c.SetJob("abc")
	snap := waitForState(t, c, StateFailed)
	assert.Equal(t, "Backend service unavailable.", snap.Error)

	time.Sleep(5 * testInterval)
	assert.Equal(t, 2, f.calls("abc"), "no polling after a transport error")
}

func TestControllerReportFetchError(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", success("rep1"))
	f.reportErr = errors.New("boom")

	c, _ := newController(t, f)
	c.SetJob("abc")
	snap := waitForState(t, c, StateFailed)
	assert.Equal(t, "failed to fetch report: boom", snap.Error)
	assert.Equal(t, "rep1", snap.ReportName)
}

func TestControllerReassignment(t *testing.T) {
	f := newFakeFetcher()
	f.block["a"] = true
	f.script("b", status(models.JobStatusPending), success("rep-b"))
	f.reports["rep-b"] = &models.Report{Name: "rep-b"}

	c, rec := newController(t, f)
	c.SetJob("a")
	require.Eventually(t, func() bool { return f.calls("a") == 1 }, time.Second, time.Millisecond)

	c.SetJob("b")
	snap := waitForState(t, c, StateSucceeded)
	assert.Equal(t, "b", snap.JobID)

	time.Sleep(5 * testInterval)
	assert.Equal(t, 1, f.calls("a"), "abandoned job is never fetched again")

	var afterSwitch bool
	for _, s := range rec.all() {
		if s.JobID == "b" {
			afterSwitch = true
			continue
		}
		assert.False(t, afterSwitch, "snapshot for %q delivered after switching to b", s.JobID)
	}
}

func TestControllerSameJobIsNoop(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending))

	c, _ := newController(t, f)
	c.SetJob("abc")
	waitForState(t, c, StatePolling)
	polls := c.Snapshot().Polls

	c.SetJob("abc")
	assert.NotEqual(t, StateLoading, c.Snapshot().State)
	assert.GreaterOrEqual(t, c.Snapshot().Polls, polls)
}

func TestControllerClear(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending))

	c, _ := newController(t, f)
	c.SetJob("abc")
	waitForState(t, c, StatePolling)

	c.Clear()
	assert.Equal(t, Snapshot{State: StateIdle}, withoutTime(c.Snapshot()))
	calls := f.calls("abc")
	time.Sleep(5 * testInterval)
	assert.Equal(t, calls, f.calls("abc"))

	c.SetJob("")
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestControllerSnapshotWhileObserverBlocks(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending))

	events := make(chan Snapshot)
	c := New(f, Options{Interval: time.Hour, OnChange: func(s Snapshot) { events <- s }})
	t.Cleanup(c.Close)

	go c.SetJob("abc")
	assert.Equal(t, StateLoading, (<-events).State)

	// The polling snapshot is now parked in the observer.
	waitForState(t, c, StatePolling)
	go c.Clear()

	idle := make(chan Snapshot, 1)
	go func() {
		for c.Snapshot().State != StateIdle {
			time.Sleep(time.Millisecond)
		}
		idle <- c.Snapshot()
	}()
	select {
	case snap := <-idle:
		assert.Empty(t, snap.JobID)
	case <-time.After(2 * time.Second):
		t.Fatal("Snapshot blocked behind a busy observer")
	}

	assert.Equal(t, StatePolling, (<-events).State)
	assert.Equal(t, StateIdle, (<-events).State)
}

func TestControllerTerminalSameJobIsNoop(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", success("rep1"))
	f.reports["rep1"] = &models.Report{Name: "rep1"}

	c, rec := newController(t, f)
	c.SetJob("abc")
	waitForState(t, c, StateSucceeded)
	n := len(rec.all())

	c.SetJob("abc")
	time.Sleep(3 * testInterval)
	assert.Equal(t, StateSucceeded, c.Snapshot().State)
	assert.Equal(t, 1, f.calls("abc"))
	assert.Len(t, rec.all(), n)
}

func TestControllerClose(t *testing.T) {
	f := newFakeFetcher()
	f.script("abc", status(models.JobStatusPending))

	c := New(f, Options{Interval: testInterval})
	c.SetJob("abc")
	waitForState(t, c, StatePolling)

	c.Close()
	calls := f.calls("abc")
	time.Sleep(5 * testInterval)
	assert.Equal(t, calls, f.calls("abc"))

	c.SetJob("other")
	assert.Equal(t, "abc", c.Snapshot().JobID)
}

func withoutTime(s Snapshot) Snapshot {
	s.UpdatedAt = time.Time{}
	s.StartedAt = time.Time{}
	return s
}
