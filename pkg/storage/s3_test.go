package storage

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportArchiveRejectsBadEndpoint(t *testing.T) {
	_, err := NewReportArchive("http://not-a-host-port/", "k", "s", "b", false)
	assert.Error(t, err)
}

func TestReportArchiveIntegration(t *testing.T) {
	endpoint := os.Getenv("S3_TEST_ENDPOINT")
	if testing.Short() || endpoint == "" {
		t.Skip("skipping integration test; set S3_TEST_ENDPOINT to run")
	}
	ctx := context.Background()

	a, err := NewReportArchive(endpoint, os.Getenv("S3_TEST_ACCESS_KEY"), os.Getenv("S3_TEST_SECRET_KEY"), "webslayer-test", false)
	require.NoError(t, err)
	require.NoError(t, a.EnsureBucket(ctx))

	require.NoError(t, a.Upload(ctx, "reports/rep1.json", []byte(`{"a":1}`), "application/json"))

	obj, err := a.client.GetObject(ctx, a.Bucket(), "reports/rep1.json", minio.GetObjectOptions{})
	require.NoError(t, err)
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))

	link, err := a.PresignedURL(ctx, "reports/rep1.json", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, link, "rep1.json")
}
