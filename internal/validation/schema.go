package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaInvalid reports a schema that does not compile.
var ErrSchemaInvalid = errors.New("validation: schema does not compile")

// ErrSchemaValidation matches every document rejected by a Schema.
var ErrSchemaValidation = errors.New("validation: document does not match schema")

// Issue is one schema violation located by JSON pointer.
type Issue struct {
	Pointer string
	Message string
}

func (i Issue) String() string {
	pointer := "#" + strings.TrimPrefix(strings.TrimSpace(i.Pointer), "#")
	if i.Message == "" {
		return pointer
	}
	return pointer + ": " + i.Message
}

// DocumentError lists the violations found in one document.
type DocumentError struct {
	Issues []Issue
}

func (e *DocumentError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrSchemaValidation
}

// Issues returns the violations carried by err. Errors from other sources
// come back as a single issue holding their message.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Issues
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled JSON schema (draft 2020-12).
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles schema, registering it under name.
func Compile(name string, schema map[string]any) (*Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	url := "sitefeed://schemas/" + name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// Validate checks a document decoded by encoding/json. A nil schema accepts
// everything.
func (s *Schema) Validate(document any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(document)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return &DocumentError{Issues: leafIssues(verr)}
	}
	return &DocumentError{Issues: []Issue{{Message: err.Error()}}}
}

// leafIssues flattens the cause tree to its leaves, which name the failing
// keyword.
func leafIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Pointer: strings.TrimSpace(node.InstanceLocation),
				Message: strings.TrimSpace(node.Message),
			})
			continue
		}
		for i := len(node.Causes) - 1; i >= 0; i-- {
			stack = append(stack, node.Causes[i])
		}
	}
	return issues
}
