package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"webslayer-go/pkg/models"
)

// ErrJobNotFound is returned when no history row matches a job id.
var ErrJobNotFound = errors.New("job not found")

const jobColumns = `id, job_id, schema_name, urls, llm_model, state, status, report_name, error, submitted_at, updated_at`

func scanJob(row pgx.Row) (*models.JobRecord, error) {
	var rec models.JobRecord
	err := row.Scan(
		&rec.ID,
		&rec.JobID,
		&rec.SchemaName,
		&rec.URLs,
		&rec.LLMModel,
		&rec.State,
		&rec.Status,
		&rec.ReportName,
		&rec.Error,
		&rec.SubmittedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordJob inserts a newly submitted job.
func (db *DB) RecordJob(ctx context.Context, rec models.JobRecord) (*models.JobRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.URLs == nil {
		rec.URLs = []string{}
	}
	created, err := scanJob(db.Pool.QueryRow(ctx,
		`INSERT INTO job_history (id, job_id, schema_name, urls, llm_model, state, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (job_id) DO UPDATE SET updated_at = NOW()
		 RETURNING `+jobColumns,
		rec.ID, rec.JobID, rec.SchemaName, rec.URLs, rec.LLMModel, rec.State, rec.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to record job: %w", err)
	}
	return created, nil
}

// UpdateJobStatus stores the latest state of a tracked job.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID, state, status, reportName, errMsg string) error {
	result, err := db.Pool.Exec(ctx,
		`UPDATE job_history
		 SET state = $2, status = $3, report_name = $4, error = $5, updated_at = NOW()
		 WHERE job_id = $1`,
		jobID, state, status, reportName, errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

// GetJob returns the history row for jobID.
func (db *DB) GetJob(ctx context.Context, jobID string) (*models.JobRecord, error) {
	rec, err := scanJob(db.Pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_history WHERE job_id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return rec, nil
}

// ListJobs returns the most recently submitted jobs first.
func (db *DB) ListJobs(ctx context.Context, limit int) ([]models.JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM job_history
		 ORDER BY submitted_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.JobRecord{}
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *rec)
	}
	return jobs, rows.Err()
}
