package models

import (
	"encoding/json"
	"time"
)

// Project is a saved bundle of URLs, schema and crawl/LLM configuration.
type Project struct {
	ID            string         `json:"id,omitempty"`
	Name          string         `json:"name" validate:"required,max=100"`
	URLs          []string       `json:"urls"`
	SchemaName    string         `json:"schema_name" validate:"required"`
	CrawlConfig   *CrawlConfig   `json:"crawl_config,omitempty"`
	ScraperConfig *ScraperConfig `json:"scraper_config,omitempty"`
	LLMType       string         `json:"llm_type,omitempty"`
	LLMModelName  string         `json:"llm_model_name,omitempty"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// Report is the named result artifact of a successful job.
type Report struct {
	Name       string          `json:"name"`
	SchemaName string          `json:"schema_name"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Content    json.RawMessage `json:"content"`
}

// ReportFilter narrows GET /reports/.
type ReportFilter struct {
	SchemaName string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
}
