// Package export renders report content as downloadable files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"webslayer-go/pkg/models"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Format is a download format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied format name, defaulting to JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeJSON
}

// Filename is the download name for a report, e.g. "rep1.json".
func Filename(reportName string, f Format) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, reportName)
	if name == "" {
		name = "report"
	}
	return name + "." + string(f)
}

// Render encodes report content in format f.
func Render(report *models.Report, f Format, columns ...string) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return XLSX(report, columns...)
	default:
		return JSON(report)
	}
}

// JSON returns the report content pretty-printed with two-space indentation.
func JSON(report *models.Report) ([]byte, error) {
	if len(report.Content) == 0 {
		return []byte("null\n"), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, report.Content, "", "  "); err != nil {
		return nil, fmt.Errorf("report %s has invalid content: %w", report.Name, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// XLSX lays report content out as a sheet: one row per record with a header
// row of field names. columns fixes the order of known fields; remaining
// fields follow alphabetically. Nested values are written as compact JSON.
func XLSX(report *models.Report, columns ...string) ([]byte, error) {
	records, err := recordsOf(report.Content)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", report.Name, err)
	}
	headers := headerOrder(records, columns)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, rec := range records {
		for c, h := range headers {
			v, ok := rec[h]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// recordsOf normalizes content into a list of objects. A top-level object
// holding exactly one list of objects is unwrapped; scalars become a single
// "value" record.
func recordsOf(content json.RawMessage) ([]map[string]any, error) {
	if len(content) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}

	switch t := v.(type) {
	case []any:
		return listRecords(t), nil
	case map[string]any:
		if len(t) == 1 {
			for _, inner := range t {
				if list, ok := inner.([]any); ok && allObjects(list) {
					return listRecords(list), nil
				}
			}
		}
		return []map[string]any{t}, nil
	case nil:
		return nil, nil
	default:
		return []map[string]any{{"value": t}}, nil
	}
}

func listRecords(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		} else {
			out = append(out, map[string]any{"value": item})
		}
	}
	return out
}

func allObjects(list []any) bool {
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return len(list) > 0
}

func headerOrder(records []map[string]any, columns []string) []string {
	seen := make(map[string]bool)
	var headers []string
	present := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			present[k] = true
		}
	}
	for _, c := range columns {
		if present[c] && !seen[c] {
			headers = append(headers, c)
			seen[c] = true
		}
	}
	var rest []string
	for k := range present {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(headers, rest...)
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case string, bool:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
