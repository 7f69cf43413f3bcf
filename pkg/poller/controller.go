// Package poller tracks a backend job from submission to its terminal state.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"webslayer-go/pkg/models"
)

// DefaultInterval is the delay between status fetches.
const DefaultInterval = 10 * time.Second

// ErrMissingReport is reported when a job succeeds without naming a report.
var ErrMissingReport = errors.New("job completed but no report provided")

// Fetcher is the slice of the backend the controller needs.
type Fetcher interface {
	GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error)
	GetReport(ctx context.Context, name string) (*models.Report, error)
}

// State is the controller's view of the tracked job.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StatePolling   State = "polling"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether no further fetches will happen in this state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	JobID      string           `json:"job_id,omitempty"`
	State      State            `json:"state"`
	Status     models.JobStatus `json:"status,omitempty"`
	Error      string           `json:"error,omitempty"`
	ReportName string           `json:"report_name,omitempty"`
	Report     *models.Report   `json:"report,omitempty"`
	Polls      int              `json:"polls"`
	StartedAt  time.Time        `json:"started_at,omitzero"`
	UpdatedAt  time.Time        `json:"updated_at,omitzero"`
}

// Options configures a Controller.
type Options struct {
	// Interval between status fetches; DefaultInterval when zero.
	Interval time.Duration
	// OnChange receives every state transition in order. It may block and may
	// call Snapshot, but must not call SetJob, Clear or Close.
	OnChange func(Snapshot)
	Logger   *zap.Logger
}

// Controller polls the status of one job at a time. Assigning a new job id
// abandons the previous one: its scheduled fetch is cancelled, its in-flight
// request is cancelled, and any late result is discarded.
type Controller struct {
	fetcher  Fetcher
	interval time.Duration
	onChange func(Snapshot)
	logger   *zap.Logger

	mu       sync.Mutex
	notifyMu sync.Mutex
	pending  []Snapshot
	snap     Snapshot
	gen      uint64
	cancel   context.CancelFunc
	task     ScheduledTask
	closed   bool
}

// New creates an idle controller.
func New(fetcher Fetcher, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		fetcher:  fetcher,
		interval: opts.Interval,
		onChange: opts.OnChange,
		logger:   opts.Logger.Named("poller"),
		snap:     Snapshot{State: StateIdle},
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// SetJob starts tracking jobID. Assigning the id that is already tracked,
// terminal or not, is a no-op; an empty id is the same as Clear.
func (c *Controller) SetJob(jobID string) {
	if jobID == "" {
		c.Clear()
		return
	}

	c.mu.Lock()
	if c.closed || (c.snap.JobID == jobID && c.snap.State != StateIdle) {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	now := time.Now()
	c.snap = Snapshot{JobID: jobID, State: StateLoading, StartedAt: now, UpdatedAt: now}
	gen := c.gen
	c.publishLocked()

	c.logger.Debug("tracking job", zap.String("job_id", jobID))
	go c.fetchStatus(gen)
}

// Clear stops tracking and returns to idle.
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.snap = Snapshot{State: StateIdle, UpdatedAt: time.Now()}
	c.publishLocked()
}

// Close stops all pending work. The controller ignores further calls.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.closed = true
}

// stopLocked abandons the current generation.
func (c *Controller) stopLocked() {
	c.gen++
	c.task.Cancel()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// publishLocked queues the current snapshot, releases c.mu and delivers the
// queue. c.mu is never held while an observer runs, so Snapshot stays
// available to an observer that blocks.
func (c *Controller) publishLocked() {
	if c.onChange == nil {
		c.mu.Unlock()
		return
	}
	c.pending = append(c.pending, c.snap)
	c.mu.Unlock()
	c.deliver()
}

// deliver drains the pending queue in order. Whoever holds notifyMu delivers
// every queued snapshot, including ones queued by other goroutines.
func (c *Controller) deliver() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			return
		}
		snap := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
		c.onChange(snap)
	}
}

// begin registers an in-flight request for gen. It returns false if gen is
// no longer current.
func (c *Controller) begin(gen uint64) (context.Context, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen != gen {
		return nil, "", false
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return ctx, c.snap.JobID, true
}

// finish reacquires the lock for a result of gen. It returns false, with the
// lock released, when the result is stale.
func (c *Controller) finish(gen uint64) bool {
	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return true
}

func (c *Controller) fetchStatus(gen uint64) {
	ctx, jobID, ok := c.begin(gen)
	if !ok {
		return
	}
	status, err := c.fetcher.GetJobStatus(ctx, jobID)
	if !c.finish(gen) {
		return
	}

	c.snap.Polls++
	c.snap.UpdatedAt = time.Now()

	if err != nil {
		c.logger.Warn("job status fetch failed", zap.String("job_id", jobID), zap.Error(err))
		c.failLocked(errorMessage(err))
		return
	}

	c.snap.Status = status.Status.Normalize()
	switch c.snap.Status {
	case models.JobStatusAccepted, models.JobStatusPending, models.JobStatusRunning:
		c.snap.State = StatePolling
		c.task.Schedule(c.interval, func() { c.fetchStatus(gen) })
		c.publishLocked()

	case models.JobStatusSuccess:
		if status.ReportName == "" {
			c.failLocked(ErrMissingReport.Error())
			return
		}
		c.snap.State = StateLoading
		c.snap.ReportName = status.ReportName
		c.publishLocked()
		go c.fetchReport(gen, status.ReportName)

	default:
		c.failLocked(status.FailureMessage())
	}
}

func (c *Controller) fetchReport(gen uint64, name string) {
	ctx, jobID, ok := c.begin(gen)
	if !ok {
		return
	}
	report, err := c.fetcher.GetReport(ctx, name)
	if !c.finish(gen) {
		return
	}

	c.snap.UpdatedAt = time.Now()
	if err != nil {
		c.logger.Warn("report fetch failed", zap.String("job_id", jobID), zap.String("report", name), zap.Error(err))
		c.failLocked("failed to fetch report: " + errorMessage(err))
		return
	}

	c.snap.State = StateSucceeded
	c.snap.Report = report
	c.logger.Info("job succeeded", zap.String("job_id", jobID), zap.String("report", name), zap.Int("polls", c.snap.Polls))
	c.publishLocked()
}

func (c *Controller) failLocked(msg string) {
	c.snap.State = StateFailed
	c.snap.Error = msg
	c.logger.Info("job failed", zap.String("job_id", c.snap.JobID), zap.String("error", msg))
	c.publishLocked()
}

// errorMessage prefers the user-facing text of typed errors.
func errorMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
