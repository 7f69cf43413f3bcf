package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/metrics"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
	"webslayer-go/pkg/state"
	"webslayer-go/pkg/utils"
)

// History records submitted jobs. *db.DB implements it.
type History interface {
	RecordJob(ctx context.Context, rec models.JobRecord) (*models.JobRecord, error)
	UpdateJobStatus(ctx context.Context, jobID, state, status, reportName, errMsg string) error
	ListJobs(ctx context.Context, limit int) ([]models.JobRecord, error)
}

const (
	historyTimeout = 5 * time.Second
	// MaxHistoryLimit caps the number of history rows returned at once.
	MaxHistoryLimit = 100
)

// HistoryStateAbandoned is recorded for a job dropped by Clear or by tracking
// another job before it finished.
const HistoryStateAbandoned = "abandoned"

// JobService is the single path for submitting a job and tracking it to
// completion. It owns the polling controller and publishes every snapshot
// to the state store.
type JobService struct {
	backend    Backend
	store      *state.Store
	history    History
	controller *poller.Controller
	logger     *zap.Logger
	onChange   func(poller.Snapshot)

	mu      sync.Mutex
	changed chan struct{}

	// owned by publish
	last poller.Snapshot
}

// JobServiceOptions bundles dependencies for NewJobService. History and
// OnChange are optional; Reports, when set, serves report fetches through
// its cache.
type JobServiceOptions struct {
	Backend  Backend
	Reports  *ReportService
	Store    *state.Store
	History  History
	Interval time.Duration
	Logger   *zap.Logger
	OnChange func(poller.Snapshot)
}

func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = state.NewStore()
	}
	s := &JobService{
		backend:  opts.Backend,
		store:    opts.Store,
		history:  opts.History,
		logger:   opts.Logger.Named("jobs"),
		onChange: opts.OnChange,
		changed:  make(chan struct{}),
	}
	s.controller = poller.New(jobFetcher{backend: opts.Backend, reports: opts.Reports}, poller.Options{
		Interval: opts.Interval,
		OnChange: s.publish,
		Logger:   opts.Logger,
	})
	return s
}

// jobFetcher routes report fetches through the report cache when available.
type jobFetcher struct {
	backend Backend
	reports *ReportService
}

func (f jobFetcher) GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	return f.backend.GetJobStatus(ctx, jobID)
}

func (f jobFetcher) GetReport(ctx context.Context, name string) (*models.Report, error) {
	if f.reports != nil {
		return f.reports.Get(ctx, name)
	}
	return f.backend.GetReport(ctx, name)
}

// Store returns the state store snapshots are published to.
func (s *JobService) Store() *state.Store {
	return s.store
}

// Submit validates req, starts the job and begins tracking it. A nil req
// submits the current draft.
func (s *JobService) Submit(ctx context.Context, req *models.JobRequest) (*models.JobCreationResponse, error) {
	if req == nil {
		r := s.store.Draft().JobRequest()
		req = &r
	}

	valid, err := utils.ValidateJobRequest(*req)
	if err != nil {
		metrics.IncreaseJobsSubmitted("invalid")
		return nil, err
	}

	created, err := s.backend.StartJob(ctx, valid)
	if err != nil {
		outcome := "error"
		if rerr, ok := backend.AsRequestError(err); ok && !rerr.IsTransport() {
			outcome = "rejected"
		}
		metrics.IncreaseJobsSubmitted(outcome)
		s.logger.Warn("job submission failed", zap.Error(err))
		return nil, err
	}
	metrics.IncreaseJobsSubmitted("accepted")
	s.logger.Info("job submitted",
		zap.String("job_id", created.JobID),
		zap.String("schema", valid.SchemaName),
		zap.Int("urls", len(valid.URLs)))

	s.recordSubmission(ctx, created.JobID, valid)
	s.controller.SetJob(created.JobID)
	return created, nil
}

func (s *JobService) recordSubmission(ctx context.Context, jobID string, req models.JobRequest) {
	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()
	_, err := s.history.RecordJob(ctx, models.JobRecord{
		JobID:      jobID,
		SchemaName: req.SchemaName,
		URLs:       req.URLs,
		LLMModel:   string(req.LLMModelType) + "/" + req.LLMModelName,
		State:      string(poller.StateLoading),
	})
	if err != nil {
		s.logger.Warn("failed to record job history", zap.String("job_id", jobID), zap.Error(err))
	}
}

// Track follows an existing job id without submitting anything.
func (s *JobService) Track(jobID string) {
	s.controller.SetJob(jobID)
}

// Current returns the tracked job's snapshot.
func (s *JobService) Current() poller.Snapshot {
	return s.controller.Snapshot()
}

// Clear stops tracking the current job.
func (s *JobService) Clear() {
	s.controller.Clear()
}

// Close stops polling for good.
func (s *JobService) Close() {
	s.controller.Close()
}

// Wait blocks until jobID reaches a terminal state or ctx ends.
func (s *JobService) Wait(ctx context.Context, jobID string) (poller.Snapshot, error) {
	for {
		s.mu.Lock()
		ch := s.changed
		s.mu.Unlock()

		snap := s.controller.Snapshot()
		if snap.JobID == jobID && snap.State.Terminal() {
			return snap, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return s.controller.Snapshot(), ctx.Err()
		}
	}
}

// History lists up to limit recent jobs, clamped to [1, MaxHistoryLimit];
// empty when no history store is configured.
func (s *JobService) History(ctx context.Context, limit int) ([]models.JobRecord, error) {
	if s.history == nil {
		return []models.JobRecord{}, nil
	}
	return s.history.ListJobs(ctx, models.ClampInt(limit, 1, MaxHistoryLimit))
}

// publish is the controller's OnChange hook. Calls arrive in order.
func (s *JobService) publish(snap poller.Snapshot) {
	s.store.SetJob(snap)

	if snap.Polls > s.last.Polls && snap.JobID == s.last.JobID {
		status := string(snap.Status)
		if status == "" {
			status = "error"
		}
		metrics.IncreaseJobPolls(status)
	}
	if snap.State.Terminal() {
		metrics.IncreaseJobsFinished(string(snap.State))
	}

	if prev := s.last; prev.JobID != "" && prev.JobID != snap.JobID && !prev.State.Terminal() {
		s.updateHistory(prev.JobID, HistoryStateAbandoned, prev)
	}
	if snap.JobID != "" && snap.State != poller.StateLoading {
		s.updateHistory(snap.JobID, string(snap.State), snap)
	}
	s.last = snap

	if s.onChange != nil {
		s.onChange(snap)
	}

	s.mu.Lock()
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

func (s *JobService) updateHistory(jobID, st string, snap poller.Snapshot) {
	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	err := s.history.UpdateJobStatus(ctx, jobID, st, string(snap.Status), snap.ReportName, snap.Error)
	if err != nil {
		s.logger.Debug("failed to update job history", zap.String("job_id", jobID), zap.Error(err))
	}
}
