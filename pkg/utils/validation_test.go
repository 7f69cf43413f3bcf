package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webslayer-go/pkg/models"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "trims whitespace", in: "  https://a.test/page ", want: "https://a.test/page"},
		{name: "empty", in: "   ", wantErr: true},
		{name: "missing scheme", in: "a.test/page", wantErr: true},
		{name: "missing host", in: "https://", wantErr: true},
		{name: "bad escape", in: "https://a.test/%zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateURLs(t *testing.T) {
	got, err := ValidateURLs([]string{"https://a.test", "", " https://b.test "})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, got)

	_, err = ValidateURLs([]string{"", "  "})
	assert.Error(t, err)

	_, err = ValidateURLs([]string{"https://a.test", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url 2")
}

func validRequest() models.JobRequest {
	llm := models.DefaultLLMConfig()
	return models.JobRequest{
		URLs:          []string{"https://a.test"},
		SchemaName:    "s1",
		CrawlConfig:   models.DefaultCrawlConfig(),
		ScraperConfig: models.DefaultScraperConfig(),
		LLMModelType:  llm.ModelType,
		LLMModelName:  llm.ModelName,
	}
}

func TestValidateJobRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validRequest()
		req.URLs = []string{" https://a.test "}
		got, err := ValidateJobRequest(req)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.test"}, got.URLs)
	})

	t.Run("collects field errors", func(t *testing.T) {
		req := validRequest()
		req.URLs = nil
		req.SchemaName = " "
		req.LLMModelType = "Mistral"

		_, err := ValidateJobRequest(req)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "urls")
		assert.Contains(t, verr.Fields, "schema_name")
		assert.Contains(t, verr.Fields, "llm_model_type")
	})
}

func TestValidateSchema(t *testing.T) {
	bad := models.FieldType("blob")
	s := models.Schema{
		Name: "s1",
		Fields: []models.SchemaField{
			{Name: "title", FieldType: models.FieldTypeString},
			{Name: "title", FieldType: models.FieldTypeString},
			{Name: "tags", FieldType: models.FieldTypeList, ListItemType: &bad},
		},
	}
	err := ValidateSchema(s)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)

	assert.NoError(t, ValidateSchema(models.Schema{
		Name:   "ok",
		Fields: []models.SchemaField{{Name: "title", FieldType: models.FieldTypeString}},
	}))
}
