package spec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swaggerDoc = `{
  "swagger": "2.0",
  "info": {"title": "users", "version": "1.0"},
  "basePath": "/api/",
  "parameters": {
    "limit": {"name": "limit", "in": "query", "type": "integer", "required": true}
  },
  "responses": {
    "notFound": {"description": "not found", "schema": {"type": "string"}}
  },
  "definitions": {
    "User": {"type": "object", "properties": {"id": {"type": "integer"}}}
  },
  "paths": {
    "/users/{id}": {
      "parameters": [
        {"name": "id", "in": "path", "required": true, "type": "string"},
        {"name": "x-trace", "in": "header", "type": "string"}
      ],
      "get": {
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "integer"},
          {"$ref": "#/parameters/limit"},
          {"name": "X-Version", "in": "header", "type": "number"}
        ],
        "responses": {
          "200": {
            "description": "ok",
            "headers": {"X-Custom-Header": {"type": "number"}},
            "schema": {"$ref": "#/definitions/User"}
          },
          "404": {"$ref": "#/responses/notFound"},
          "default": {"description": "error"}
        }
      },
      "put": {
        "parameters": [
          {"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/User"}}
        ],
        "responses": {"204": {"description": "updated"}}
      }
    },
    "/users": {
      "post": {"responses": {"201": {"description": "created"}}}
    }
  }
}`

func parseDoc(t *testing.T, s string) *Spec {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	sp, err := Parse(doc, "swagger.json")
	require.NoError(t, err)
	return sp
}

func findOperation(t *testing.T, s *Spec, path, method string) *Operation {
	t.Helper()
	for _, op := range s.Operations {
		if op.PathName == path && op.Method == method {
			return op
		}
	}
	t.Fatalf("operation %s %s not found", method, path)
	return nil
}

func TestParse(t *testing.T) {
	t.Parallel()

	s := parseDoc(t, swaggerDoc)
	assert.Equal(t, "/api", s.BasePath)
	assert.Equal(t, "swagger.json", s.PathOrURL)
	assert.Equal(t, "[swaggerRoot].paths", s.Paths.String())
	assert.Contains(t, s.Definitions, "User")

	require.Len(t, s.Operations, 3)
	assert.Equal(t, "/users", s.Operations[0].PathName)
	assert.Equal(t, "post", s.Operations[0].Method)
	assert.Equal(t, "get", s.Operations[1].Method)
	assert.Equal(t, "put", s.Operations[2].Method)

	t.Run("operation", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "get")
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get", op.Location.String())
		assert.Same(t, s, op.Spec)
		require.Len(t, op.Segments, 2)
		assert.False(t, op.Segments[0].IsParam)
		assert.True(t, op.Segments[1].IsParam)
		assert.Equal(t, "id", op.Segments[1].ParamName())
		assert.Equal(t, 1, op.Placeholders())
	})

	t.Run("operation parameters override path parameters", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "get")
		id := op.PathParameters["id"]
		require.NotNil(t, id)
		assert.Equal(t, "integer", id.Type)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get.parameters[0]", id.Location.String())
		assert.Same(t, op, id.Operation)
	})

	t.Run("path level parameters are inherited", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "get")
		trace := op.RequestHeaderParameters["x-trace"]
		require.NotNil(t, trace)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.parameters[1]", trace.Location.String())
		version := op.RequestHeaderParameters["x-version"]
		require.NotNil(t, version)
		assert.Equal(t, "X-Version", version.Name)
	})

	t.Run("referenced parameters resolve at the referencing site", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "get")
		require.Len(t, op.QueryParameters, 1)
		limit := op.QueryParameters[0]
		assert.Equal(t, "limit", limit.Name)
		assert.True(t, limit.Required)
		assert.Equal(t, "integer", limit.Type)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get.parameters[1]", limit.Location.String())
	})

	t.Run("responses", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "get")
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get.responses", op.ResponsesLocation.String())
		require.Len(t, op.Responses, 3)

		ok := op.Responses["200"]
		require.NotNil(t, ok)
		require.NotNil(t, ok.Schema)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get.responses.200.schema", ok.Schema.Location.String())
		h := ok.Headers["x-custom-header"]
		require.NotNil(t, h)
		assert.Equal(t, "number", h.Type)
		assert.Equal(t,
			"[swaggerRoot].paths./users/{id}.get.responses.200.headers.X-Custom-Header", h.Location.String())

		notFound := op.Responses["404"]
		require.NotNil(t, notFound.Schema)
		assert.Equal(t, map[string]any{"type": "string"}, notFound.Schema.Value)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.get.responses.404", notFound.Location.String())

		def := op.Responses[DefaultResponse]
		require.NotNil(t, def)
		assert.Nil(t, def.Schema)
	})

	t.Run("body parameter", func(t *testing.T) {
		t.Parallel()
		op := findOperation(t, s, "/users/{id}", "put")
		body := op.RequestBodyParameter
		require.NotNil(t, body)
		assert.True(t, body.Required)
		assert.Equal(t, "[swaggerRoot].paths./users/{id}.put.parameters[0].schema", body.Schema.Location.String())
		assert.Equal(t, map[string]any{"$ref": "#/definitions/User"}, body.Schema.Value)
		assert.Nil(t, findOperation(t, s, "/users", "post").RequestBodyParameter)
	})
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  any
	}{
		{name: "not an object", doc: "swagger"},
		{name: "missing paths", doc: map[string]any{"swagger": "2.0"}},
		{name: "paths not an object", doc: map[string]any{"paths": []any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.doc, "swagger.json")
			var target *MalformedSpecDocumentError
			require.ErrorAs(t, err, &target)
			assert.Contains(t, err.Error(), `"swagger.json" is not a valid swagger file`)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	a := parseDoc(t, swaggerDoc)
	b := parseDoc(t, swaggerDoc)
	require.Len(t, b.Operations, len(a.Operations))
	for i := range a.Operations {
		assert.Equal(t, a.Operations[i].Location.String(), b.Operations[i].Location.String())
		assert.Equal(t, a.Operations[i].Value, b.Operations[i].Value)
	}
}

func TestSchema_At(t *testing.T) {
	t.Parallel()

	s := parseDoc(t, swaggerDoc)
	op := findOperation(t, s, "/users/{id}", "get")
	schema := Schema{
		Value: map[string]any{
			"type":       "object",
			"properties": map[string]any{"id": map[string]any{"type": "integer"}},
			"allOf":      []any{map[string]any{"required": []any{"id"}}},
		},
		Location: op.Responses["200"].Location.Field("schema"),
	}

	tests := []struct {
		name      string
		path      string
		wantLoc   string
		wantValue any
	}{
		{
			name:      "root",
			path:      "#",
			wantLoc:   "[swaggerRoot].paths./users/{id}.get.responses.200.schema",
			wantValue: schema.Value,
		},
		{
			name:      "property type",
			path:      "#/properties/id/type",
			wantLoc:   "[swaggerRoot].paths./users/{id}.get.responses.200.schema.properties.id.type",
			wantValue: "integer",
		},
		{
			name:      "array member",
			path:      "#/allOf/0/required",
			wantLoc:   "[swaggerRoot].paths./users/{id}.get.responses.200.schema.allOf.0.required",
			wantValue: []any{"id"},
		},
		{
			name:    "missing",
			path:    "#/properties/name",
			wantLoc: "[swaggerRoot].paths./users/{id}.get.responses.200.schema.properties.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loc, v := schema.At(tt.path)
			assert.Equal(t, tt.wantLoc, loc.String())
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestSchema_AtDefinitions(t *testing.T) {
	t.Parallel()

	s := parseDoc(t, swaggerDoc)
	body := findOperation(t, s, "/users/{id}", "put").RequestBodyParameter
	require.NotNil(t, body)

	loc, v := body.Schema.At("#/definitions/User/properties/id/type")
	assert.Equal(t, "[swaggerRoot].definitions.User.properties.id.type", loc.String())
	assert.Equal(t, "integer", v)

	loc, v = body.Schema.At("#/$ref")
	assert.Equal(t, "[swaggerRoot].paths./users/{id}.put.parameters[0].schema.$ref", loc.String())
	assert.Equal(t, "#/definitions/User", v)
}
