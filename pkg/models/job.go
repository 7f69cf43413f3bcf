package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JobStatus is the status vocabulary reported by the backend for a scrape job.
type JobStatus string

const (
	JobStatusAccepted JobStatus = "accepted"
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running" // older backends report this instead of pending
	JobStatusSuccess  JobStatus = "success"
	JobStatusFailed   JobStatus = "failed"
)

// Normalize lowercases and trims a status as received over the wire.
func (s JobStatus) Normalize() JobStatus {
	return JobStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// IsTerminal reports whether no further status change is expected.
func (s JobStatus) IsTerminal() bool {
	switch s.Normalize() {
	case JobStatusSuccess, JobStatusFailed:
		return true
	}
	return false
}

// IsKnown reports whether s belongs to the status vocabulary.
func (s JobStatus) IsKnown() bool {
	switch s.Normalize() {
	case JobStatusAccepted, JobStatusPending, JobStatusRunning, JobStatusSuccess, JobStatusFailed:
		return true
	}
	return false
}

// JobRequest is the payload for POST /scrape/start.
type JobRequest struct {
	URLs             []string      `json:"urls" validate:"required,min=1,dive,required"`
	SchemaName       string        `json:"schema_name" validate:"required"`
	ReturnSchemaList bool          `json:"return_schema_list"`
	CrawlConfig      CrawlConfig   `json:"crawl_config"`
	ScraperConfig    ScraperConfig `json:"scraper_config"`
	LLMModelType     ModelType     `json:"llm_model_type" validate:"required,oneof=Ollama Claude OpenAI Gemini"`
	LLMModelName     string        `json:"llm_model_name" validate:"required"`
}

// JobCreationResponse is returned by the backend when a job has been queued.
type JobCreationResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// JobStatusResponse is returned by GET /scrape/{job_id}.
type JobStatusResponse struct {
	Status     JobStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	ReportName string          `json:"report_name,omitempty"`
}

// FailureMessage returns the text to surface for a failed or unrecognised status.
func (r *JobStatusResponse) FailureMessage() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Status.Normalize() == JobStatusFailed {
		return "job failed"
	}
	return fmt.Sprintf("unexpected job status %q", r.Status)
}
