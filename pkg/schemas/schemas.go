// Package schemas loads schema and project definitions from files and checks
// report content against a schema's field list.
package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"

	"webslayer-go/pkg/models"
)

// LoadSchemaFile reads a schema definition from a YAML or JSON file.
func LoadSchemaFile(path string) (*models.Schema, error) {
	var s models.Schema
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadProjectFile reads a project definition from a YAML or JSON file.
func LoadProjectFile(path string) (*models.Project, error) {
	var p models.Project
	if err := decodeFile(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// MarshalYAML renders v (a schema, project or report) as YAML.
func MarshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// ToJSONSchema describes the records a schema produces. Report content may be
// a single record or a list of records.
func ToJSONSchema(s models.Schema) map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := []string{}
	for _, f := range s.Fields {
		p := fieldSchema(f.FieldType, f.ListItemType)
		if f.Description != nil && *f.Description != "" {
			p["description"] = *f.Description
		}
		if f.Required {
			required = append(required, f.Name)
		} else {
			p = map[string]any{"anyOf": []any{p, map[string]any{"type": "null"}}}
		}
		props[f.Name] = p
	}
	sort.Strings(required)

	record := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title":   s.Name,
		"anyOf": []any{
			record,
			map[string]any{"type": "array", "items": record},
		},
	}
}

func fieldSchema(t models.FieldType, item *models.FieldType) map[string]any {
	switch t {
	case models.FieldTypeString:
		return map[string]any{"type": "string"}
	case models.FieldTypeInteger:
		return map[string]any{"type": "integer"}
	case models.FieldTypeFloat:
		return map[string]any{"type": "number"}
	case models.FieldTypeBoolean:
		return map[string]any{"type": "boolean"}
	case models.FieldTypeDate:
		return map[string]any{"type": "string", "format": "date"}
	case models.FieldTypeDict:
		return map[string]any{"type": "object"}
	case models.FieldTypeList:
		s := map[string]any{"type": "array"}
		if item != nil && *item != models.FieldTypeList {
			s["items"] = fieldSchema(*item, nil)
		}
		return s
	}
	return map[string]any{}
}

// CheckResult reports whether report content matches a schema.
type CheckResult struct {
	Schema string   `json:"schema"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Check validates content against the schema's JSON Schema rendering.
func Check(s models.Schema, content json.RawMessage) (*CheckResult, error) {
	b, err := json.Marshal(ToJSONSchema(s))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}

	result := &CheckResult{Schema: s.Name, Valid: true}
	if err := compiled.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("validate content: %w", err)
		}
		result.Valid = false
		for _, e := range verr.BasicOutput().Errors {
			if e.Error == "" {
				continue
			}
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", loc, e.Error))
		}
	}
	return result, nil
}
