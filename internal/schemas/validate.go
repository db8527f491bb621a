// Package schemas provides JSON Schema validation for hiring-assistant service responses.
package schemas

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Response schema names, one per response shape the gateway decodes.
const (
	Upload        = "upload"
	ResumeSummary = "resume_summary"
	Chat          = "chat"
	Message       = "message"
	EmailLogs     = "email_logs"
	Jobs          = "jobs"
	Job           = "job"
	JobMatch      = "job_match"
	JobMatches    = "job_matches"
	Statistics    = "statistics"
)

//go:embed responses/*.json
var responseFS embed.FS

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Names returns the embedded response schema names in sorted order.
func Names() []string {
	if err := compileAll(); err != nil {
		return nil
	}
	names := make([]string, 0, len(compiled))
	for name := range compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateResponse validates a response body against the named embedded schema.
// Bodies that are not JSON at all fail with a *ValidationError as well, so
// callers only need to distinguish "valid" from "not valid".
func ValidateResponse(name string, body []byte) error {
	if err := compileAll(); err != nil {
		return err
	}
	schema, ok := compiled[name]
	if !ok {
		return &SchemaLoadError{Path: name, Message: "unknown response schema"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationError{
			Schema: name,
			Errors: []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	return toValidationError(name, result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError("", result)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

func compileAll() error {
	compileOnce.Do(func() {
		entries, err := responseFS.ReadDir("responses")
		if err != nil {
			compileErr = &SchemaLoadError{Path: "responses", Message: "failed to list embedded schemas", Cause: err}
			return
		}

		compiled = make(map[string]*gojsonschema.Schema, len(entries))
		for _, entry := range entries {
			file := path.Join("responses", entry.Name())
			data, err := responseFS.ReadFile(file)
			if err != nil {
				compileErr = &SchemaLoadError{Path: file, Message: "failed to read embedded schema", Cause: err}
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				compileErr = &SchemaLoadError{Path: file, Message: "invalid schema", Cause: err}
				return
			}
			compiled[strings.TrimSuffix(entry.Name(), ".json")] = schema
		}
	})
	return compileErr
}
