package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
)

func TestTruncateURL(t *testing.T) {
	assert.Equal(t, "https://a.io", TruncateURL("https://a.io", 20))
	assert.Equal(t, "https://exa...", TruncateURL("https://example.com/long/path", 14))
}

func TestShortenID(t *testing.T) {
	assert.Equal(t, "abc", ShortenID("abc"))
	assert.Equal(t, "12345678...", ShortenID("1234567890abcdef"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(nil))
	assert.Equal(t, "-", FormatDate(&time.Time{}))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1m5s", FormatElapsed(65*time.Second+400*time.Millisecond))
}

func TestJoinURLs(t *testing.T) {
	urls := []string{"a", "b", "c"}
	assert.Equal(t, "a, b, c", JoinURLs(urls, 3))
	assert.Equal(t, "a (+2 more)", JoinURLs(urls, 1))
}

func TestFormatErrorMessage(t *testing.T) {
	assert.Equal(t, "❌ Error: boom\n", FormatErrorMessage(errors.New("boom")))
}

func TestJobLine(t *testing.T) {
	tests := []struct {
		name string
		snap poller.Snapshot
		want string
	}{
		{
			name: "polling",
			snap: poller.Snapshot{JobID: "j1", State: poller.StatePolling, Status: models.JobStatusPending, Polls: 2},
			want: "job j1: polling (status pending, poll 2)",
		},
		{
			name: "succeeded",
			snap: poller.Snapshot{JobID: "j1", State: poller.StateSucceeded, Status: models.JobStatusSuccess, Polls: 3, ReportName: "r1"},
			want: "job j1: succeeded (status success, poll 3), report r1",
		},
		{
			name: "failed before any status",
			snap: poller.Snapshot{JobID: "j1", State: poller.StateFailed, Error: "backend unavailable"},
			want: "job j1: failed: backend unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JobLine(tt.snap))
		})
	}
}

func TestSchemaFields(t *testing.T) {
	item := models.FieldTypeString
	desc := "Product title"
	out := SchemaFields(models.Schema{Name: "products", Fields: []models.SchemaField{
		{Name: "title", FieldType: models.FieldTypeString, Required: true, Description: &desc},
		{Name: "tags", FieldType: models.FieldTypeList, ListItemType: &item},
	}})

	assert.Contains(t, out, "Schema: products")
	assert.Contains(t, out, "Product title")
	assert.Contains(t, out, "list[string]")
	assert.Contains(t, SchemaFields(models.Schema{Name: "empty"}), "(no fields)")
}

func TestTablesEmpty(t *testing.T) {
	assert.Equal(t, "No reports found.\n", ReportTable(nil))
	assert.Equal(t, "No projects found.\n", ProjectTable(nil))
	assert.Equal(t, "No jobs recorded.\n", HistoryTable(nil))
}

func TestProjectTable(t *testing.T) {
	out := ProjectTable([]models.Project{{
		Name:         "shop",
		SchemaName:   "products",
		URLs:         []string{"https://a.example", "https://b.example", "https://c.example"},
		LLMType:      "Claude",
		LLMModelName: "sonnet",
	}})
	assert.Contains(t, out, "shop")
	assert.Contains(t, out, "Claude/sonnet")
	assert.Contains(t, out, "Total: 1 project(s)")
}
