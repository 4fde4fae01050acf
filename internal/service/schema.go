package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"taskflow/internal/domain"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/task_input.json
var taskInputSchema []byte

const taskInputSchemaURL = "https://taskflow.local/schemas/task-input.json"

// InputSchema checks create/update bodies before they are bound to
// domain.TaskInput.
type InputSchema struct {
	schema *jsonschema.Schema
}

func NewInputSchema() (*InputSchema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(taskInputSchemaURL, bytes.NewReader(taskInputSchema)); err != nil {
		return nil, fmt.Errorf("add task input schema: %w", err)
	}
	schema, err := compiler.Compile(taskInputSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task input schema: %w", err)
	}
	return &InputSchema{schema: schema}, nil
}

// MustInputSchema panics if the embedded schema does not compile.
func MustInputSchema() *InputSchema {
	s, err := NewInputSchema()
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the raw schema, published by the docs endpoint.
func (s *InputSchema) Document() json.RawMessage {
	return json.RawMessage(taskInputSchema)
}

// Decode validates body against the schema and binds it. An empty body is
// treated as an empty object.
func (s *InputSchema) Decode(body []byte) (domain.TaskInput, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return domain.TaskInput{}, domain.NewValidationError("Request body must be valid JSON")
	}

	if err := s.schema.Validate(doc); err != nil {
		return domain.TaskInput{}, mapSchemaError(err)
	}

	var in domain.TaskInput
	if err := json.Unmarshal(body, &in); err != nil {
		return domain.TaskInput{}, domain.NewValidationError("Request body must be valid JSON")
	}
	return in, nil
}

// mapSchemaError reduces a schema failure to the error taxonomy. Title
// problems win over priority problems, matching the order fields are checked.
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return domain.NewValidationError(err.Error())
	}

	var leaves []*jsonschema.ValidationError
	collectLeaves(ve, &leaves)

	byField := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		byField[fieldOf(leaf)] = true
	}

	switch {
	case byField["title"]:
		return domain.ErrInvalidTitle
	case byField["priority"]:
		return domain.ErrInvalidPriority
	case byField["dueDate"]:
		return domain.ErrInvalidDueDate
	case byField["description"]:
		return domain.NewValidationError("Description must be a string")
	case len(leaves) > 0 && leaves[0].InstanceLocation == "":
		return domain.NewValidationError("Request body must be a JSON object")
	default:
		return domain.NewValidationError(ve.Message)
	}
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, ve)
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

// fieldOf names the top-level property a leaf error is about. A missing
// required property is reported against the object, so the keyword decides.
func fieldOf(ve *jsonschema.ValidationError) string {
	loc := strings.TrimPrefix(ve.InstanceLocation, "#")
	loc = strings.TrimPrefix(loc, "/")
	if loc != "" {
		field, _, _ := strings.Cut(loc, "/")
		return field
	}
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		return "title"
	}
	return ""
}
