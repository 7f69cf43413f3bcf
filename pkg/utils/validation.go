package utils

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"webslayer-go/pkg/models"
)

// ValidateURL trims and validates a URL string, returning a normalized value
// or an error if the URL is empty, unparsable, or missing a scheme or host.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: scheme and host are required", s)
	}
	return s, nil
}

// ValidateURLs validates every entry and returns the normalized list. Blank
// entries are dropped; an empty result is an error.
func ValidateURLs(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		u, err := ValidateURL(r)
		if err != nil {
			return nil, fmt.Errorf("url %d: %w", i+1, err)
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one URL is required")
	}
	return out, nil
}

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateJobRequest checks a job request before submission and returns the
// request with normalized URLs. Numeric bounds are not checked here; they are
// clamped when the draft is edited.
func ValidateJobRequest(req models.JobRequest) (models.JobRequest, error) {
	verr := &ValidationError{}

	urls, err := ValidateURLs(req.URLs)
	if err != nil {
		verr.add("urls", err.Error())
	} else {
		req.URLs = urls
	}
	req.SchemaName = strings.TrimSpace(req.SchemaName)

	if err := validatorInstance().Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return req, fmt.Errorf("failed to validate job request: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(jsonFieldName(fe), fieldMessage(fe))
		}
	}

	if len(verr.Fields) > 0 {
		return req, verr
	}
	return req, nil
}

// ValidateSchema checks a schema definition before it is sent to the backend.
func ValidateSchema(s models.Schema) error {
	verr := &ValidationError{}
	if strings.TrimSpace(s.Name) == "" {
		verr.add("name", "is required")
	}
	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		key := fmt.Sprintf("fields[%d]", i)
		switch {
		case strings.TrimSpace(f.Name) == "":
			verr.add(key, "name is required")
		case seen[f.Name]:
			verr.add(key, fmt.Sprintf("duplicate field %q", f.Name))
		case !f.FieldType.Valid():
			verr.add(key, fmt.Sprintf("unknown field type %q", f.FieldType))
		case f.FieldType == models.FieldTypeList && f.ListItemType != nil && !f.ListItemType.Valid():
			verr.add(key, fmt.Sprintf("unknown list item type %q", *f.ListItemType))
		}
		seen[f.Name] = true
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "URLs":
		return "urls"
	case "SchemaName":
		return "schema_name"
	case "LLMModelType":
		return "llm_model_type"
	case "LLMModelName":
		return "llm_model_name"
	}
	return strings.ToLower(fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
