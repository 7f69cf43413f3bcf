package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"webslayer-go/pkg/models"
)

// ListSchemas returns the names of all schemas known to the backend.
func (c *Client) ListSchemas(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.doGetRequest(ctx, "/schema/", "list schemas", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// GetSchema fetches a schema definition by name.
func (c *Client) GetSchema(ctx context.Context, name string) (*models.Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	var schema models.Schema
	if err := c.doGetRequest(ctx, "/schema/"+url.PathEscape(name), "get schema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// UpsertSchema creates or replaces a schema.
func (c *Client) UpsertSchema(ctx context.Context, schema models.Schema) (*models.Schema, error) {
	var saved models.Schema
	if err := c.doJSONRequest(ctx, http.MethodPost, "/schema/", "save schema", schema, &saved); err != nil {
		return nil, err
	}
	if saved.Name == "" {
		saved = schema
	}
	return &saved, nil
}

// DeleteSchema removes a schema by name.
func (c *Client) DeleteSchema(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("schema name is required")
	}
	return c.doDeleteRequest(ctx, "/schema/"+url.PathEscape(name), "delete schema")
}
