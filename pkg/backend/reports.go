package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"webslayer-go/pkg/models"
)

// GetReport fetches a report by name.
func (c *Client) GetReport(ctx context.Context, name string) (*models.Report, error) {
	if name == "" {
		return nil, fmt.Errorf("report name is required")
	}
	var report models.Report
	if err := c.doGetRequest(ctx, "/reports/"+url.PathEscape(name), "get report", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports lists reports, newest first, narrowed by filter.
func (c *Client) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	q := url.Values{}
	if filter.SchemaName != "" {
		q.Set("schema_name", filter.SchemaName)
	}
	if filter.StartTime != nil {
		q.Set("start_time", filter.StartTime.UTC().Format(time.RFC3339))
	}
	if filter.EndTime != nil {
		q.Set("end_time", filter.EndTime.UTC().Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(models.ClampInt(filter.Limit, 1, 100)))
	}

	path := "/reports/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var reports []models.Report
	if err := c.doGetRequest(ctx, path, "list reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// DeleteReport removes a report by name.
func (c *Client) DeleteReport(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("report name is required")
	}
	return c.doDeleteRequest(ctx, "/reports/"+url.PathEscape(name), "delete report")
}
