package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNewSanthoshValidator(t *testing.T) {
	t.Parallel()
	v := NewSanthoshValidator(nil)
	assert.NotNil(t, v)
}

func TestSanthoshValidator_Validate(t *testing.T) {
	t.Parallel()

	definitions := map[string]any{
		"User": decode(t, `{
			"type": "object",
			"required": ["id"],
			"properties": {"id": {"type": "integer"}, "name": {"type": "string", "minLength": 2}}
		}`),
	}
	v := NewSanthoshValidator(definitions)

	tests := []struct {
		name   string
		schema string
		doc    string
		want   []Failure
	}{
		{
			name:   "valid document",
			schema: `{"type": "object", "properties": {"id": {"type": "number"}}}`,
			doc:    `{"id": 1}`,
			want:   nil,
		},
		{
			name:   "root type",
			schema: `{"type": "number"}`,
			doc:    `"not-a-number"`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/type", Message: "should be number"}},
		},
		{
			name:   "nested type",
			schema: `{"type": "object", "properties": {"tags": {"type": "array", "items": {"type": "string"}}}}`,
			doc:    `{"tags": ["a", 1]}`,
			want: []Failure{{
				DataPath:   []string{"tags", "1"},
				SchemaPath: "#/properties/tags/items/type",
				Message:    "should be string",
			}},
		},
		{
			name:   "required properties",
			schema: `{"type": "object", "required": ["a", "b"]}`,
			doc:    `{}`,
			want: []Failure{
				{DataPath: []string{}, SchemaPath: "#/required", Message: "should have required property 'a'"},
				{DataPath: []string{}, SchemaPath: "#/required", Message: "should have required property 'b'"},
			},
		},
		{
			name:   "additional properties",
			schema: `{"type": "object", "properties": {"a": {}}, "additionalProperties": false}`,
			doc:    `{"a": 1, "b": 2}`,
			want: []Failure{{
				DataPath:   []string{"b"},
				SchemaPath: "#/additionalProperties",
				Message:    "should NOT have additional properties",
			}},
		},
		{
			name:   "enum",
			schema: `{"enum": ["a", "b"]}`,
			doc:    `"c"`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/enum", Message: "should be equal to one of the allowed values"}},
		},
		{
			name:   "draft-04 exclusive maximum",
			schema: `{"type": "number", "maximum": 10, "exclusiveMaximum": true}`,
			doc:    `10`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/exclusiveMaximum", Message: "should be < 10"}},
		},
		{
			name:   "minimum",
			schema: `{"type": "number", "minimum": 1.5}`,
			doc:    `1`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/minimum", Message: "should be >= 1.5"}},
		},
		{
			name:   "pattern",
			schema: `{"type": "string", "pattern": "^[a-z]+$"}`,
			doc:    `"ABC"`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/pattern", Message: `should match pattern "^[a-z]+$"`}},
		},
		{
			name:   "max items",
			schema: `{"type": "array", "maxItems": 1}`,
			doc:    `[1, 2]`,
			want:   []Failure{{DataPath: []string{}, SchemaPath: "#/maxItems", Message: "should NOT have more than 1 items"}},
		},
		{
			name:   "unknown format is ignored",
			schema: `{"type": "integer", "format": "int32"}`,
			doc:    `5`,
			want:   nil,
		},
		{
			name:   "definitions reference",
			schema: `{"$ref": "#/definitions/User"}`,
			doc:    `{"id": "x", "name": "a"}`,
			want: []Failure{
				{DataPath: []string{"id"}, SchemaPath: "#/definitions/User/properties/id/type", Message: "should be integer"},
				{
					DataPath:   []string{"name"},
					SchemaPath: "#/definitions/User/properties/name/minLength",
					Message:    "should NOT be shorter than 2 characters",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := v.Validate(decode(t, tt.schema), decode(t, tt.doc))
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSanthoshValidator_AnyOf(t *testing.T) {
	t.Parallel()
	v := NewSanthoshValidator(nil)

	got, err := v.Validate(decode(t, `{"anyOf": [{"type": "string"}, {"type": "integer"}]}`), true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "#/anyOf", got[0].SchemaPath)
	assert.Equal(t, "should match some schema in anyOf", got[0].Message)
}

func TestSanthoshValidator_NonObjectSchema(t *testing.T) {
	t.Parallel()
	v := NewSanthoshValidator(nil)

	got, err := v.Validate(nil, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSanthoshValidator_InvalidSchema(t *testing.T) {
	t.Parallel()
	v := NewSanthoshValidator(nil)

	_, err := v.Validate(map[string]any{"type": 123}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema")
}
