package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/backend/backendtest"
	"webslayer-go/pkg/cache"
	"webslayer-go/pkg/export"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
	"webslayer-go/pkg/state"
	"webslayer-go/pkg/utils"
)

const testInterval = 10 * time.Millisecond

func newClient(t *testing.T, srv *backendtest.Server) Backend {
	t.Helper()
	return Instrument(backend.NewClient(srv.URL, 2*time.Second))
}

func validRequest(urls ...string) *models.JobRequest {
	draft := state.DefaultDraft()
	draft.URLs = urls
	draft.SchemaName = "s1"
	req := draft.JobRequest()
	return &req
}

type fakeHistory struct {
	mu        sync.Mutex
	records   map[string]models.JobRecord
	lastLimit int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{records: make(map[string]models.JobRecord)}
}

func (h *fakeHistory) RecordJob(_ context.Context, rec models.JobRecord) (*models.JobRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[rec.JobID] = rec
	return &rec, nil
}

func (h *fakeHistory) UpdateJobStatus(_ context.Context, jobID, st, status, reportName, errMsg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.records[jobID]
	if !ok {
		return errors.New("job not found")
	}
	rec.State = st
	rec.Status = status
	rec.ReportName = reportName
	rec.Error = errMsg
	h.records[jobID] = rec
	return nil
}

func (h *fakeHistory) ListJobs(_ context.Context, limit int) ([]models.JobRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastLimit = limit
	out := make([]models.JobRecord, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, r)
	}
	return out, nil
}

func (h *fakeHistory) get(jobID string) models.JobRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records[jobID]
}

func TestSubmitAndTrackToSuccess(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("abc")
	srv.ScriptJob("abc",
		models.JobStatusResponse{Status: models.JobStatusPending},
		models.JobStatusResponse{Status: models.JobStatusSuccess, ReportName: "rep1"},
	)
	srv.AddReport(models.Report{Name: "rep1", SchemaName: "s1", Content: json.RawMessage(`{"title":"A"}`)})

	client := newClient(t, srv)
	reports := NewReportService(ReportServiceOptions{Backend: client})
	history := newFakeHistory()

	var mu sync.Mutex
	var states []poller.State
	jobs := NewJobService(JobServiceOptions{
		Backend:  client,
		Reports:  reports,
		History:  history,
		Interval: testInterval,
		OnChange: func(s poller.Snapshot) {
			mu.Lock()
			states = append(states, s.State)
			mu.Unlock()
		},
	})
	t.Cleanup(jobs.Close)

	created, err := jobs.Submit(context.Background(), validRequest("https://a.test"))
	require.NoError(t, err)
	assert.Equal(t, "abc", created.JobID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := jobs.Wait(ctx, "abc")
	require.NoError(t, err)

	assert.Equal(t, poller.StateSucceeded, snap.State)
	assert.Equal(t, "rep1", snap.ReportName)
	require.NotNil(t, snap.Report)
	assert.JSONEq(t, `{"title":"A"}`, string(snap.Report.Content))
	assert.Equal(t, 2, srv.StatusCalls("abc"))

	mu.Lock()
	assert.Equal(t, []poller.State{poller.StateLoading, poller.StatePolling, poller.StateLoading, poller.StateSucceeded}, states)
	mu.Unlock()

	assert.Equal(t, poller.StateSucceeded, jobs.Store().Job().State)

	rec := history.get("abc")
	assert.Equal(t, "s1", rec.SchemaName)
	assert.Equal(t, string(poller.StateSucceeded), rec.State)
	assert.Equal(t, "rep1", rec.ReportName)

	started := srv.Started()
	require.Len(t, started, 1)
	assert.Equal(t, []string{"https://a.test"}, started[0].URLs)

	// The completed report is now cached.
	_, err = reports.Get(context.Background(), "rep1")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.ReportCalls("rep1"))
}

func TestSubmitFailedJob(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("bad")
	srv.ScriptJob("bad", models.JobStatusResponse{Status: models.JobStatusFailed, Error: "boom"})

	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), Interval: testInterval})
	t.Cleanup(jobs.Close)

	_, err := jobs.Submit(context.Background(), validRequest("https://a.test"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := jobs.Wait(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, poller.StateFailed, snap.State)
	assert.Equal(t, "boom", snap.Error)
}

func TestSubmitInvalidRequest(t *testing.T) {
	srv := backendtest.New(t)
	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), Interval: testInterval})
	t.Cleanup(jobs.Close)

	req := validRequest()
	_, err := jobs.Submit(context.Background(), req)

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "urls")
	assert.Empty(t, srv.Started())
	assert.Equal(t, poller.StateIdle, jobs.Current().State)
}

func TestSubmitRejected(t *testing.T) {
	srv := backendtest.New(t)
	srv.FailStart(http.StatusBadRequest, "Schema 's1' not found")

	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), Interval: testInterval})
	t.Cleanup(jobs.Close)

	_, err := jobs.Submit(context.Background(), validRequest("https://a.test"))
	require.Error(t, err)
	rerr, ok := backend.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, backend.ErrorTypeRejected, rerr.Type)
	assert.Equal(t, poller.StateIdle, jobs.Current().State)
}

func TestSubmitDraft(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("d1")

	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), Interval: time.Hour})
	t.Cleanup(jobs.Close)

	jobs.Store().UpdateDraft(func(d *state.Draft) {
		d.URLs = []string{"https://b.test"}
		d.SchemaName = "s2"
	})

	created, err := jobs.Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "d1", created.JobID)

	started := srv.Started()
	require.Len(t, started, 1)
	assert.Equal(t, "s2", started[0].SchemaName)
	assert.Equal(t, "d1", jobs.Current().JobID)
}

func TestWaitHonorsContext(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("slow")

	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), Interval: testInterval})
	t.Cleanup(jobs.Close)

	_, err := jobs.Submit(context.Background(), validRequest("https://a.test"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	snap, err := jobs.Wait(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, snap.State.Terminal())
}

func TestHistoryMarksAbandonedJobs(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("a", "b")
	history := newFakeHistory()
	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, srv), History: history, Interval: testInterval})
	t.Cleanup(jobs.Close)

	_, err := jobs.Submit(context.Background(), validRequest("https://a.test"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return history.get("a").State == string(poller.StatePolling) }, 2*time.Second, 5*time.Millisecond)

	_, err = jobs.Submit(context.Background(), validRequest("https://b.test"))
	require.NoError(t, err)
	assert.Equal(t, HistoryStateAbandoned, history.get("a").State)

	require.Eventually(t, func() bool { return history.get("b").State == string(poller.StatePolling) }, 2*time.Second, 5*time.Millisecond)
	jobs.Clear()
	assert.Equal(t, HistoryStateAbandoned, history.get("b").State)

	time.Sleep(5 * testInterval)
	assert.Equal(t, HistoryStateAbandoned, history.get("a").State)
	assert.Equal(t, HistoryStateAbandoned, history.get("b").State)
}

func TestHistoryLimitIsClamped(t *testing.T) {
	history := newFakeHistory()
	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, backendtest.New(t)), History: history})
	t.Cleanup(jobs.Close)

	_, err := jobs.History(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, MaxHistoryLimit, history.lastLimit)

	_, err = jobs.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, history.lastLimit)
}

func TestHistoryDisabled(t *testing.T) {
	jobs := NewJobService(JobServiceOptions{Backend: newClient(t, backendtest.New(t))})
	t.Cleanup(jobs.Close)

	recs, err := jobs.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReportServiceCaches(t *testing.T) {
	srv := backendtest.New(t)
	srv.AddReport(models.Report{Name: "r1", SchemaName: "s1", Content: json.RawMessage(`[{"a":1}]`)})

	mem := cache.NewMemoryRepo()
	svc := NewReportService(ReportServiceOptions{Backend: newClient(t, srv), Cache: mem, TTL: time.Minute})

	for range 3 {
		r, err := svc.Get(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", r.Name)
	}
	assert.Equal(t, 1, srv.ReportCalls("r1"))

	require.NoError(t, svc.Delete(context.Background(), "r1"))
	ok, err := mem.Exists(context.Background(), cache.ReportKey("r1"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Get(context.Background(), "r1")
	assert.True(t, backend.IsNotFound(err))
}

func TestReportDownload(t *testing.T) {
	srv := backendtest.New(t)
	srv.AddSchema(models.Schema{Name: "s1", Fields: []models.SchemaField{
		{Name: "title", FieldType: models.FieldTypeString, Required: true},
		{Name: "price", FieldType: models.FieldTypeFloat, Required: true},
	}})
	srv.AddReport(models.Report{Name: "r1", SchemaName: "s1", Content: json.RawMessage(`[{"price":1.5,"title":"A"}]`)})

	svc := NewReportService(ReportServiceOptions{Backend: newClient(t, srv)})

	dl, err := svc.Download(context.Background(), "r1", export.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "r1.json", dl.Filename)
	assert.Equal(t, export.FormatJSON.ContentType(), dl.ContentType)

	dl, err = svc.Download(context.Background(), "r1", export.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "r1.xlsx", dl.Filename)
	assert.NotEmpty(t, dl.Data)
}

type fakeArchive struct {
	objects map[string][]byte
}

func (a *fakeArchive) Upload(_ context.Context, key string, data []byte, _ string) error {
	a.objects[key] = data
	return nil
}

func (a *fakeArchive) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.test/" + key, nil
}

func TestReportArchive(t *testing.T) {
	srv := backendtest.New(t)
	srv.AddReport(models.Report{Name: "r1", Content: json.RawMessage(`{"a":1}`)})

	svc := NewReportService(ReportServiceOptions{Backend: newClient(t, srv)})
	_, err := svc.Archive(context.Background(), "r1", export.FormatJSON)
	require.ErrorIs(t, err, ErrArchiveDisabled)

	archive := &fakeArchive{objects: map[string][]byte{}}
	svc = NewReportService(ReportServiceOptions{Backend: newClient(t, srv), Archive: archive})
	res, err := svc.Archive(context.Background(), "r1", export.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "reports/r1.json", res.Key)
	assert.Equal(t, "https://objects.test/reports/r1.json", res.URL)
	assert.Contains(t, archive.objects, "reports/r1.json")
}

func TestReportCheck(t *testing.T) {
	srv := backendtest.New(t)
	srv.AddSchema(models.Schema{Name: "s1", Fields: []models.SchemaField{
		{Name: "title", FieldType: models.FieldTypeString, Required: true},
	}})
	srv.AddReport(models.Report{Name: "good", SchemaName: "s1", Content: json.RawMessage(`{"title":"A"}`)})
	srv.AddReport(models.Report{Name: "bad", SchemaName: "s1", Content: json.RawMessage(`{"title":3}`)})
	srv.AddReport(models.Report{Name: "anon", Content: json.RawMessage(`{}`)})

	svc := NewReportService(ReportServiceOptions{Backend: newClient(t, srv)})

	res, err := svc.Check(context.Background(), "good", "")
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = svc.Check(context.Background(), "bad", "")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)

	_, err = svc.Check(context.Background(), "anon", "")
	assert.Error(t, err)
}

func TestProjectRunAndOverview(t *testing.T) {
	srv := backendtest.New(t)
	srv.QueueJobIDs("p-job")
	srv.AddSchema(models.Schema{Name: "s1"})
	srv.AddSchema(models.Schema{Name: "s2"})
	depth := models.DefaultCrawlConfig()
	depth.MaxDepth = 99
	srv.AddProject(models.Project{
		Name:         "shop",
		URLs:         []string{"https://shop.test"},
		SchemaName:   "s2",
		CrawlConfig:  &depth,
		LLMType:      string(models.ModelTypeClaude),
		LLMModelName: "claude-x",
	})

	client := newClient(t, srv)
	jobs := NewJobService(JobServiceOptions{Backend: client, Interval: time.Hour})
	t.Cleanup(jobs.Close)
	projects := NewProjectService(client, jobs)

	ov, err := projects.Overview(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", ov.Project.Name)
	assert.Equal(t, []string{"s1", "s2"}, ov.Schemas)

	_, err = projects.Overview(context.Background(), "missing")
	assert.True(t, backend.IsNotFound(err))

	created, err := projects.Run(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, "p-job", created.JobID)

	started := srv.Started()
	require.Len(t, started, 1)
	assert.Equal(t, "s2", started[0].SchemaName)
	assert.Equal(t, models.ModelTypeClaude, started[0].LLMModelType)
	assert.Equal(t, models.MaxMaxDepth, started[0].CrawlConfig.MaxDepth)

	saved, err := projects.SaveDraft(context.Background(), "copy")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.test"}, saved.URLs)
	assert.NotNil(t, saved.CreatedAt)
}
