package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/state"
)

// ProjectService loads saved projects into the job draft.
type ProjectService struct {
	backend Backend
	jobs    *JobService
}

func NewProjectService(b Backend, jobs *JobService) *ProjectService {
	return &ProjectService{backend: b, jobs: jobs}
}

// ProjectOverview is a project with the schema names it can be switched to.
type ProjectOverview struct {
	Project models.Project `json:"project"`
	Schemas []string       `json:"schemas"`
}

// Overview fetches a project and the available schema names concurrently.
func (s *ProjectService) Overview(ctx context.Context, name string) (*ProjectOverview, error) {
	var out ProjectOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.backend.GetProject(gctx, name)
		if err != nil {
			return err
		}
		out.Project = *p
		return nil
	})
	g.Go(func() error {
		names, err := s.backend.ListSchemas(gctx)
		if err != nil {
			return err
		}
		out.Schemas = names
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Load copies a project into the draft and returns the result.
func (s *ProjectService) Load(ctx context.Context, name string) (state.Draft, error) {
	p, err := s.backend.GetProject(ctx, name)
	if err != nil {
		return state.Draft{}, err
	}
	return s.jobs.Store().UpdateDraft(func(d *state.Draft) { d.ApplyProject(*p) }), nil
}

// Run loads a project into the draft and submits it.
func (s *ProjectService) Run(ctx context.Context, name string) (*models.JobCreationResponse, error) {
	if _, err := s.Load(ctx, name); err != nil {
		return nil, err
	}
	return s.jobs.Submit(ctx, nil)
}

// SaveDraft stores the current draft as project name.
func (s *ProjectService) SaveDraft(ctx context.Context, name string) (*models.Project, error) {
	return s.backend.UpsertProject(ctx, s.jobs.Store().Draft().ToProject(name))
}
