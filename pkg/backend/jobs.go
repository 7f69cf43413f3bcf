package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"webslayer-go/pkg/models"
)

// StartJob submits a scrape job and returns the id assigned by the backend.
func (c *Client) StartJob(ctx context.Context, req models.JobRequest) (*models.JobCreationResponse, error) {
	var created models.JobCreationResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/scrape/start", "start job", req, &created); err != nil {
		return nil, err
	}
	if created.JobID == "" {
		return nil, newInvalidResponseError("backend returned no job id", nil)
	}
	return &created, nil
}

// GetJobStatus fetches the current status of a job.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	var status models.JobStatusResponse
	path := "/scrape/" + url.PathEscape(jobID)
	if err := c.doGetRequest(ctx, path, "get job status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
