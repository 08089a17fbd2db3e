package history

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Check(t *testing.T) {
	tests := []struct {
		name    string
		s       *schema
		raw     string
		wantErr bool
	}{
		{"triple", tripleSchema, `{"a":42,"b":17,"operation":"-"}`, false},
		{"triple negative operand", tripleSchema, `{"a":-1,"b":17,"operation":"-"}`, true},
		{"triple unknown operation", tripleSchema, `{"a":4,"b":2,"operation":"%"}`, true},
		{"bank entry", bankEntrySchema, `{"id":"w1","a":7,"b":8,"operation":"×","correctAnswer":56,"sessionId":"s1"}`, false},
		{"bank entry missing answer", bankEntrySchema, `{"id":"w1","a":7,"b":8,"operation":"×"}`, true},
		{"record accuracy out of range", recordSchema, `{"id":"r","createdAt":"x","questionCount":1,"correct":1,"wrong":0,"accuracy":101,"avgTime":1}`, true},
		{"not JSON", tripleSchema, `{"a":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.check(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchema_BadDefinition(t *testing.T) {
	s := &schema{Name: "broken", Definition: map[string]any{"type": 12}}
	err := s.check(json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken schema")

	// The compile error is remembered.
	assert.Error(t, s.check(json.RawMessage(`{}`)))
}
