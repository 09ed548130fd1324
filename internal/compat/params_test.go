package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pact "github.com/andyballingall/swagger-mock-validator/internal/mock"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	ints := map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}

	tests := []struct {
		name             string
		def              map[string]any
		collectionFormat string
		raw              string
		want             any
		reason           string
	}{
		{name: "number", def: map[string]any{"type": "number"}, raw: " 1.5", want: 1.5},
		{name: "not a number", def: map[string]any{"type": "number"}, raw: "x", reason: "should be number"},
		{name: "boolean", def: map[string]any{"type": "boolean"}, raw: "false", want: false},
		{name: "boolean shorthand", def: map[string]any{"type": "boolean"}, raw: "1", reason: "should be boolean"},
		{name: "untyped stays a string", def: map[string]any{}, raw: "7", want: "7"},
		{name: "csv by default", def: ints, raw: "1,2", want: []any{1.0, 2.0}},
		{name: "unknown format falls back to csv", def: ints, collectionFormat: "bogus", raw: "1,2", want: []any{1.0, 2.0}},
		{name: "ssv", def: ints, collectionFormat: "ssv", raw: "1 2", want: []any{1.0, 2.0}},
		{name: "tsv", def: ints, collectionFormat: "tsv", raw: "1\t2", want: []any{1.0, 2.0}},
		{name: "pipes", def: ints, collectionFormat: "pipes", raw: "1|2", want: []any{1.0, 2.0}},
		{
			name: "multi", def: ints, collectionFormat: "multi",
			raw: "1" + pact.MultiValueSeparator + "2", want: []any{1.0, 2.0},
		},
		{name: "empty array", def: ints, raw: "", want: []any{}},
		{name: "item of the wrong type", def: ints, raw: "1,a", reason: "should be integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, reason := coerce(tt.def, tt.collectionFormat, tt.raw)
			assert.Equal(t, tt.reason, reason)
			if tt.reason == "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
