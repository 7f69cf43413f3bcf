package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webslayer-go/pkg/models"
)

func articleSchema() models.Schema {
	item := models.FieldTypeString
	return models.Schema{
		Name: "articles",
		Fields: []models.SchemaField{
			{Name: "title", FieldType: models.FieldTypeString, Required: true},
			{Name: "views", FieldType: models.FieldTypeInteger},
			{Name: "tags", FieldType: models.FieldTypeList, ListItemType: &item},
		},
	}
}

func TestLoadSchemaFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: articles
fields:
  - name: title
    field_type: string
    required: true
    description: Headline
  - name: tags
    field_type: list
    list_item_type: string
`), 0600))

	s, err := LoadSchemaFile(path)
	require.NoError(t, err)
	assert.Equal(t, "articles", s.Name)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "Headline", *s.Fields[0].Description)
	assert.Equal(t, models.FieldTypeString, *s.Fields[1].ListItemType)
}

func TestLoadProjectFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"p1","urls":["https://a.test"],"schema_name":"s1","crawl_config":{"max_depth":3}}`), 0600))

	p, err := LoadProjectFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.Name)
	require.NotNil(t, p.CrawlConfig)
	assert.Equal(t, 3, p.CrawlConfig.MaxDepth)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\nfeilds: []\n"), 0600))
	_, err := LoadSchemaFile(path)
	assert.Error(t, err)

	_, err = LoadSchemaFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{name: "single record", content: `{"title":"a","views":3,"tags":["x"]}`, valid: true},
		{name: "list of records", content: `[{"title":"a"},{"title":"b","views":null}]`, valid: true},
		{name: "missing required", content: `{"views":3}`, valid: false},
		{name: "wrong type", content: `{"title":"a","views":"many"}`, valid: false},
		{name: "wrong item type", content: `[{"title":"a","tags":[1]}]`, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Check(articleSchema(), json.RawMessage(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.Errors)
			if !tt.valid {
				assert.NotEmpty(t, res.Errors)
			}
		})
	}

	_, err := Check(articleSchema(), json.RawMessage(`{`))
	assert.Error(t, err)
}
