package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"webslayer-go/pkg/models"
)

func TestJSON(t *testing.T) {
	out, err := JSON(&models.Report{Name: "rep1", Content: json.RawMessage(`{"title":"x","n":[1,2]}`)})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"title\": \"x\",\n  \"n\": [\n    1,\n    2\n  ]\n}\n", string(out))

	_, err = JSON(&models.Report{Name: "bad", Content: json.RawMessage(`{`)})
	assert.Error(t, err)
}

func TestFilenameAndFormat(t *testing.T) {
	assert.Equal(t, "rep1.json", Filename("rep1", FormatJSON))
	assert.Equal(t, "a_b.xlsx", Filename("a/b", FormatXLSX))

	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, ContentTypeXLSX, f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func readSheet(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	return rows
}

func TestXLSXListOfRecords(t *testing.T) {
	report := &models.Report{
		Name: "rep1",
		Content: json.RawMessage(`{"items":[
			{"title":"a","price":10,"tags":["x","y"]},
			{"title":"b","price":2.5,"extra":true}
		]}`),
	}

	data, err := XLSX(report, "title", "price")
	require.NoError(t, err)

	rows := readSheet(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "price", "extra", "tags"}, rows[0])
	assert.Equal(t, []string{"a", "10", "", `["x","y"]`}, rows[1])
	assert.Equal(t, []string{"b", "2.5", "TRUE"}, rows[2])
}

func TestXLSXSingleObject(t *testing.T) {
	data, err := XLSX(&models.Report{Name: "r", Content: json.RawMessage(`{"title":"a","meta":{"k":1}}`)})
	require.NoError(t, err)

	rows := readSheet(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"meta", "title"}, rows[0])
	assert.Equal(t, []string{`{"k":1}`, "a"}, rows[1])
}
