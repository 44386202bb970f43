package todo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "todos.schema.json"

// Schema is the JSON Schema for the todos document.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todos",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed", "createdAt"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string"},
      "completed": {"type": "boolean"},
      "createdAt": {"type": "string", "format": "date-time"},
      "updatedAt": {"type": "string", "format": "date-time"}
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func todosSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			schemaErr = fmt.Errorf("add todos schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks a todos document and returns every problem found.
// A nil result means the document is valid.
func ValidateDocument(data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}}
	}

	schema, err := todosSchema()
	if err != nil {
		return []error{err}
	}

	var errs []error
	if err := schema.Validate(doc); err != nil {
		errs = appendSchemaErrors(errs, err)
		return errs
	}

	// The schema cannot express uniqueness of a single property, and its
	// regex classes disagree with strings.TrimSpace about whitespace.
	items, _ := doc.([]interface{})
	seen := make(map[string]int, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]interface{})
		if text, _ := obj["text"].(string); !hasText(text) {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].text", i),
				Err:  ErrEmptyInput,
			})
		}
		id, _ := obj["id"].(string)
		if first, ok := seen[id]; ok {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first at [%d])", id, first),
			})
			continue
		}
		seen[id] = i
	}
	return errs
}

func appendSchemaErrors(errs []error, err error) []error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return append(errs, err)
	}
	return collectSchemaErrors(errs, ve)
}

func collectSchemaErrors(errs []error, err *jsonschema.ValidationError) []error {
	if len(err.Causes) == 0 {
		return append(errs, &ValidationError{
			Path: pointerPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
	}
	for _, cause := range err.Causes {
		errs = collectSchemaErrors(errs, cause)
	}
	return errs
}

func hasText(text string) bool {
	_, ok := cleanText(text)
	return ok
}

// pointerPath turns a JSON Pointer such as "/2/text" into "[2].text".
func pointerPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		if token == "" {
			continue
		}
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		if idx, err := strconv.Atoi(token); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}
