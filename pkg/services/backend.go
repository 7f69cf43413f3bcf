package services

import (
	"context"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/metrics"
	"webslayer-go/pkg/models"
)

// Backend is the scraping backend as seen by the services. *backend.Client
// implements it.
type Backend interface {
	StartJob(ctx context.Context, req models.JobRequest) (*models.JobCreationResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error)

	GetReport(ctx context.Context, name string) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	DeleteReport(ctx context.Context, name string) error

	ListSchemas(ctx context.Context) ([]string, error)
	GetSchema(ctx context.Context, name string) (*models.Schema, error)
	UpsertSchema(ctx context.Context, schema models.Schema) (*models.Schema, error)
	DeleteSchema(ctx context.Context, name string) error

	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, name string) (*models.Project, error)
	UpsertProject(ctx context.Context, project models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, name string) error
}

var _ Backend = (*backend.Client)(nil)

// Instrument counts every backend call in the backend_requests_total metric.
func Instrument(b Backend) Backend {
	return instrumented{b}
}

type instrumented struct {
	next Backend
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if rerr, ok := backend.AsRequestError(err); ok {
			outcome = string(rerr.Type)
		}
	}
	metrics.IncreaseBackendRequests(operation, outcome)
}

func (i instrumented) StartJob(ctx context.Context, req models.JobRequest) (*models.JobCreationResponse, error) {
	r, err := i.next.StartJob(ctx, req)
	observe("start_job", err)
	return r, err
}

func (i instrumented) GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	r, err := i.next.GetJobStatus(ctx, jobID)
	observe("get_job_status", err)
	return r, err
}

func (i instrumented) GetReport(ctx context.Context, name string) (*models.Report, error) {
	r, err := i.next.GetReport(ctx, name)
	observe("get_report", err)
	return r, err
}

func (i instrumented) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	r, err := i.next.ListReports(ctx, filter)
	observe("list_reports", err)
	return r, err
}

func (i instrumented) DeleteReport(ctx context.Context, name string) error {
	err := i.next.DeleteReport(ctx, name)
	observe("delete_report", err)
	return err
}

func (i instrumented) ListSchemas(ctx context.Context) ([]string, error) {
	r, err := i.next.ListSchemas(ctx)
	observe("list_schemas", err)
	return r, err
}

func (i instrumented) GetSchema(ctx context.Context, name string) (*models.Schema, error) {
	r, err := i.next.GetSchema(ctx, name)
	observe("get_schema", err)
	return r, err
}

func (i instrumented) UpsertSchema(ctx context.Context, schema models.Schema) (*models.Schema, error) {
	r, err := i.next.UpsertSchema(ctx, schema)
	observe("upsert_schema", err)
	return r, err
}

func (i instrumented) DeleteSchema(ctx context.Context, name string) error {
	err := i.next.DeleteSchema(ctx, name)
	observe("delete_schema", err)
	return err
}

func (i instrumented) ListProjects(ctx context.Context) ([]models.Project, error) {
	r, err := i.next.ListProjects(ctx)
	observe("list_projects", err)
	return r, err
}

func (i instrumented) GetProject(ctx context.Context, name string) (*models.Project, error) {
	r, err := i.next.GetProject(ctx, name)
	observe("get_project", err)
	return r, err
}

func (i instrumented) UpsertProject(ctx context.Context, project models.Project) (*models.Project, error) {
	r, err := i.next.UpsertProject(ctx, project)
	observe("upsert_project", err)
	return r, err
}

func (i instrumented) DeleteProject(ctx context.Context, name string) error {
	err := i.next.DeleteProject(ctx, name)
	observe("delete_project", err)
	return err
}
