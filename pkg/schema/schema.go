// Package schema is a validation engine backed by JSON Schema. Failed
// validations are reported as error trees that errtree can flatten or mirror.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/formajs/formbind/pkg/binder"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrCompile is wrapped by every error returned from Compile.
var ErrCompile = errors.New("schema compilation failed")

// Schema is a compiled JSON schema implementing binder.Schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
	printer  *message.Printer
}

var _ binder.Schema = (*Schema)(nil)

// Compile compiles a JSON or YAML schema document. The name identifies the
// schema in error messages.
func Compile(name string, doc []byte) (*Schema, error) {
	// YAML is a superset of JSON, so both go through the same conversion
	jsonDoc, err := yaml.YAMLToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: failed to parse schema: %v", ErrCompile, name, err)
	}

	var schemaDoc any
	if err := json.Unmarshal(jsonDoc, &schemaDoc); err != nil {
		return nil, fmt.Errorf("%w for %s: failed to parse schema JSON: %v", ErrCompile, name, err)
	}

	compiler := jsonschema.NewCompiler()
	schemaURL := "http://formbind.local/" + url.PathEscape(name)
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("%w for %s: failed to add schema resource: %v", ErrCompile, name, err)
	}

	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrCompile, name, err)
	}

	return &Schema{
		name:     name,
		compiled: compiled,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// CompileFile reads and compiles the schema stored at path.
func CompileFile(path string) (*Schema, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Compile(name, doc)
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate validates input against the schema. Input is normalized through a
// JSON round trip first; the normalized value is returned as Result.Value.
// Schema violations are reported in Result.Errors, never as an error.
func (s *Schema) Validate(ctx context.Context, input any) (binder.Result, error) {
	if err := ctx.Err(); err != nil {
		return binder.Result{}, err
	}

	normalized, err := normalize(input)
	if err != nil {
		return binder.Result{}, fmt.Errorf("schema %s: %w", s.name, err)
	}

	err = s.compiled.Validate(normalized)
	if err == nil {
		return binder.Result{Valid: true, Value: normalized}, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return binder.Result{}, fmt.Errorf("schema %s: %w", s.name, err)
	}

	return binder.Result{
		Valid:  false,
		Value:  normalized,
		Errors: buildTree(s.violations(validationErr), normalized),
	}, nil
}

// normalize converts input to the plain JSON value model the validator
// expects. A nil input is validated as an empty object.
func normalize(input any) (any, error) {
	if input == nil {
		input = map[string]any{}
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}
	return normalized, nil
}
