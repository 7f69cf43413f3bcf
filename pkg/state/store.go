// Package state holds the dashboard's editable job draft and the snapshot of
// the job being tracked. One Store is created at startup and passed to every
// front end.
package state

import (
	"sync"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
)

// Draft is the job form as currently edited.
type Draft struct {
	URLs             []string             `json:"urls"`
	SchemaName       string               `json:"schema_name"`
	ReturnSchemaList bool                 `json:"return_schema_list"`
	CrawlConfig      models.CrawlConfig   `json:"crawl_config"`
	ScraperConfig    models.ScraperConfig `json:"scraper_config"`
	LLM              models.LLMConfig     `json:"llm"`
}

// DefaultDraft returns an empty form with default configuration.
func DefaultDraft() Draft {
	return Draft{
		URLs:          []string{},
		CrawlConfig:   models.DefaultCrawlConfig(),
		ScraperConfig: models.DefaultScraperConfig(),
		LLM:           models.DefaultLLMConfig(),
	}
}

// Clamp returns a copy with config fields inside their bounds.
func (d Draft) Clamp() Draft {
	d.CrawlConfig = d.CrawlConfig.Clamp()
	d.ScraperConfig = d.ScraperConfig.Clamp()
	return d
}

// JobRequest assembles the submission payload from the draft.
func (d Draft) JobRequest() models.JobRequest {
	return models.JobRequest{
		URLs:             append([]string(nil), d.URLs...),
		SchemaName:       d.SchemaName,
		ReturnSchemaList: d.ReturnSchemaList,
		CrawlConfig:      d.CrawlConfig,
		ScraperConfig:    d.ScraperConfig,
		LLMModelType:     d.LLM.ModelType,
		LLMModelName:     d.LLM.ModelName,
	}
}

// ApplyProject loads a saved project into the draft. Settings the project
// leaves unset keep their current values.
func (d *Draft) ApplyProject(p models.Project) {
	d.URLs = append([]string(nil), p.URLs...)
	d.SchemaName = p.SchemaName
	if p.CrawlConfig != nil {
		d.CrawlConfig = *p.CrawlConfig
	}
	if p.ScraperConfig != nil {
		d.ScraperConfig = *p.ScraperConfig
	}
	if p.LLMType != "" {
		d.LLM.ModelType = models.ModelType(p.LLMType)
	}
	if p.LLMModelName != "" {
		d.LLM.ModelName = p.LLMModelName
	}
	*d = d.Clamp()
}

// ToProject saves the draft under name.
func (d Draft) ToProject(name string) models.Project {
	crawl := d.CrawlConfig
	scraper := d.ScraperConfig
	return models.Project{
		Name:          name,
		URLs:          append([]string(nil), d.URLs...),
		SchemaName:    d.SchemaName,
		CrawlConfig:   &crawl,
		ScraperConfig: &scraper,
		LLMType:       string(d.LLM.ModelType),
		LLMModelName:  d.LLM.ModelName,
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	draft Draft
	job   poller.Snapshot
}

func NewStore() *Store {
	return &Store{
		draft: DefaultDraft(),
		job:   poller.Snapshot{State: poller.StateIdle},
	}
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.draft
	d.URLs = append([]string(nil), s.draft.URLs...)
	return d
}

// UpdateDraft applies fn to the draft and clamps the result.
func (s *Store) UpdateDraft(fn func(*Draft)) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.URLs = append([]string(nil), s.draft.URLs...)
	fn(&d)
	s.draft = d.Clamp()
	return s.draft
}

// ReplaceDraft overwrites the draft, clamped.
func (s *Store) ReplaceDraft(d Draft) Draft {
	return s.UpdateDraft(func(cur *Draft) { *cur = d })
}

// Job returns the last published job snapshot.
func (s *Store) Job() poller.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.job
}

// SetJob records a job snapshot. It has the poller.Options.OnChange signature.
func (s *Store) SetJob(snap poller.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = snap
}
