package models

import (
	"time"

	"github.com/google/uuid"
)

// JobRecord is a row of the dashboard's job history.
type JobRecord struct {
	ID          uuid.UUID `json:"id"`
	JobID       string    `json:"job_id"`
	SchemaName  string    `json:"schema_name"`
	URLs        []string  `json:"urls"`
	LLMModel    string    `json:"llm_model"`
	State       string    `json:"state"`
	Status      string    `json:"status,omitempty"`
	ReportName  string    `json:"report_name,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
