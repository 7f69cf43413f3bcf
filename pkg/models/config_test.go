package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrawlConfigClamp(t *testing.T) {
	c := DefaultCrawlConfig()

	c.MaxDepth = 0
	assert.Equal(t, 1, c.Clamp().MaxDepth)

	c.MaxDepth = 999
	assert.Equal(t, 10, c.Clamp().MaxDepth)

	c = CrawlConfig{MaxURLs: 5000, ChunkSize: 10, ChunkOverlap: -3}
	got := c.Clamp()
	assert.Equal(t, MaxMaxURLs, got.MaxURLs)
	assert.Equal(t, MinChunkSize, got.ChunkSize)
	assert.Equal(t, 0, got.ChunkOverlap)
}

func TestScraperConfigClamp(t *testing.T) {
	got := ScraperConfig{MaxHallucinationChecks: -1, MaxQualityChecks: 9}.Clamp()
	assert.Equal(t, 0, got.MaxHallucinationChecks)
	assert.Equal(t, 5, got.MaxQualityChecks)
}

func TestDefaultsWithinBounds(t *testing.T) {
	assert.Equal(t, DefaultCrawlConfig(), DefaultCrawlConfig().Clamp())
	assert.Equal(t, DefaultScraperConfig(), DefaultScraperConfig().Clamp())
}

func TestJobStatus(t *testing.T) {
	for _, s := range []JobStatus{JobStatusAccepted, JobStatusPending, JobStatusRunning} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.IsKnown(), s)
	}
	assert.True(t, JobStatus("SUCCESS").IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatus("queued").IsKnown())

	r := JobStatusResponse{Status: "queued"}
	assert.Equal(t, `unexpected job status "queued"`, r.FailureMessage())
	r = JobStatusResponse{Status: JobStatusFailed, Error: "boom"}
	assert.Equal(t, "boom", r.FailureMessage())
}
