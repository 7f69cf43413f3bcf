package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"webslayer-go/pkg/models"
)

// ListProjects returns all saved projects.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.doGetRequest(ctx, "/projects", "list projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a project by name.
func (c *Client) GetProject(ctx context.Context, name string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	var project models.Project
	if err := c.doGetRequest(ctx, "/projects/"+url.PathEscape(name), "get project", &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpsertProject creates a project or replaces the one with the same name.
func (c *Client) UpsertProject(ctx context.Context, project models.Project) (*models.Project, error) {
	var saved models.Project
	if err := c.doJSONRequest(ctx, http.MethodPost, "/projects", "save project", project, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteProject removes a project by name.
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	return c.doDeleteRequest(ctx, "/projects/"+url.PathEscape(name), "delete project")
}
