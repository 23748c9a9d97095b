package jsonutil

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{
			name:  "string value",
			input: json.RawMessage(`"hello"`),
			want:  "hello",
		},
		{
			name:  "integer value",
			input: json.RawMessage(`42`),
			want:  "42",
		},
		{
			name:  "float value",
			input: json.RawMessage(`3.14`),
			want:  "3.14",
		},
		{
			name:  "boolean true",
			input: json.RawMessage(`true`),
			want:  "true",
		},
		{
			name:  "null value",
			input: json.RawMessage(`null`),
			want:  "",
		},
		{
			name:  "nil raw message",
			input: nil,
			want:  "",
		},
		{
			name:  "nested object falls back to raw string",
			input: json.RawMessage(`{"key":"value"}`),
			want:  `{"key":"value"}`,
		},
		{
			name:  "empty string",
			input: json.RawMessage(`""`),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleStringValue(tt.input)
			if got != tt.want {
				t.Errorf("FlexibleStringValue(%s) = %q, want %q", string(tt.input), got, tt.want)
			}
		})
	}
}

func TestFlexibleIntValue(t *testing.T) {
	tests := []struct {
		name   string
		input  json.RawMessage
		want   int
		wantOK bool
	}{
		{
			name:   "integer value",
			input:  json.RawMessage(`85`),
			want:   85,
			wantOK: true,
		},
		{
			name:   "float value rounds",
			input:  json.RawMessage(`84.6`),
			want:   85,
			wantOK: true,
		},
		{
			name:   "numeric string",
			input:  json.RawMessage(`"72"`),
			want:   72,
			wantOK: true,
		},
		{
			name:   "percentage string",
			input:  json.RawMessage(`"85%"`),
			want:   85,
			wantOK: true,
		},
		{
			name:   "float string",
			input:  json.RawMessage(`"66.7"`),
			want:   67,
			wantOK: true,
		},
		{
			name:   "null value",
			input:  json.RawMessage(`null`),
			want:   0,
			wantOK: false,
		},
		{
			name:   "absent value",
			input:  nil,
			want:   0,
			wantOK: false,
		},
		{
			name:   "non-numeric string",
			input:  json.RawMessage(`"high"`),
			want:   0,
			wantOK: false,
		},
		{
			name:   "empty string",
			input:  json.RawMessage(`""`),
			want:   0,
			wantOK: false,
		},
		{
			name:   "negative value",
			input:  json.RawMessage(`-3`),
			want:   -3,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlexibleIntValue(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FlexibleIntValue(%s) = (%d, %v), want (%d, %v)", string(tt.input), got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlexibleStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  []string
	}{
		{
			name:  "string array",
			input: json.RawMessage(`["use memoization", "add input validation"]`),
			want:  []string{"use memoization", "add input validation"},
		},
		{
			name:  "bare string becomes one-element slice",
			input: json.RawMessage(`"use memoization"`),
			want:  []string{"use memoization"},
		},
		{
			name:  "mixed-type array coerced",
			input: json.RawMessage(`["line", 42, true]`),
			want:  []string{"line", "42", "true"},
		},
		{
			name:  "null yields nil",
			input: json.RawMessage(`null`),
			want:  nil,
		},
		{
			name:  "absent yields nil",
			input: nil,
			want:  nil,
		},
		{
			name:  "empty array yields empty slice",
			input: json.RawMessage(`[]`),
			want:  []string{},
		},
		{
			name:  "empty elements dropped",
			input: json.RawMessage(`["keep", "", null]`),
			want:  []string{"keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleStringSlice(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlexibleStringSlice(%s) = %v, want %v", string(tt.input), got, tt.want)
			}
		})
	}
}
