package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schema is a named JSON Schema definition for a persisted entry. It is
// compiled on first use.
type schema struct {
	Name       string
	Definition map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

var operationEnum = []any{"+", "-", "×", "÷"}

var recordSchema = &schema{
	Name: "history-record",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"id", "createdAt", "questionCount", "correct", "wrong", "accuracy", "avgTime"},
		"properties": map[string]any{
			"id":            map[string]any{"type": "string", "minLength": 1},
			"createdAt":     map[string]any{"type": "string"},
			"questionCount": map[string]any{"type": "integer", "minimum": 0},
			"correct":       map[string]any{"type": "integer", "minimum": 0},
			"wrong":         map[string]any{"type": "integer", "minimum": 0},
			"accuracy":      map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"avgTime":       map[string]any{"type": "number", "minimum": 0},
			"times":         map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": "number"}},
			"type":          map[string]any{"type": "string"},
			"timeLimit":     map[string]any{"type": "integer", "minimum": 0},
			"wrongDetails":  map[string]any{"type": []any{"array", "null"}},
		},
	},
}

var bankEntrySchema = &schema{
	Name: "wrong-bank-entry",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"id", "a", "b", "operation", "correctAnswer"},
		"properties": map[string]any{
			"id":            map[string]any{"type": "string", "minLength": 1},
			"a":             map[string]any{"type": "integer"},
			"b":             map[string]any{"type": "integer"},
			"operation":     map[string]any{"enum": operationEnum},
			"correctAnswer": map[string]any{"type": "integer"},
			"timeTaken":     map[string]any{"type": "number", "minimum": 0},
		},
	},
}

var tripleSchema = &schema{
	Name: "triple",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"a", "b", "operation"},
		"properties": map[string]any{
			"a":         map[string]any{"type": "integer", "minimum": 0},
			"b":         map[string]any{"type": "integer", "minimum": 0},
			"operation": map[string]any{"enum": operationEnum},
		},
	},
}

func (s *schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(mustJSON(s.Definition)))
		if err != nil {
			s.err = err
			return
		}
		url := "schema://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if s.err = c.AddResource(url, doc); s.err != nil {
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}

// check reports whether raw is a JSON value that satisfies s.
func (s *schema) check(raw json.RawMessage) error {
	sch, err := s.compile()
	if err != nil {
		return fmt.Errorf("%s schema: %w", s.Name, err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return sch.Validate(v)
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
