// Package spec normalises a Swagger 2 document into location-aware operations.
package spec

import (
	"strconv"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
)

// DefaultResponse is the key of the catch-all response slot.
const DefaultResponse = "default"

// Methods lists the operation keys of a path item in evaluation order.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// Spec is a parsed swagger document.
type Spec struct {
	PathOrURL   string
	BasePath    string
	Paths       location.Location
	PathsValue  map[string]any
	Operations  []*Operation
	Definitions map[string]any
}

// Segment is one "/"-delimited piece of a path template.
type Segment struct {
	Text    string
	IsParam bool
}

// ParamName returns the placeholder name of a {param} segment.
func (s Segment) ParamName() string {
	return strings.TrimSuffix(strings.TrimPrefix(s.Text, "{"), "}")
}

// Operation is one (path template, method) pair.
type Operation struct {
	PathName string
	Method   string
	Location location.Location
	Value    any
	Spec     *Spec
	Segments []Segment

	PathParameters          map[string]*Parameter
	QueryParameters         []*Parameter
	RequestHeaderParameters map[string]*Parameter
	RequestBodyParameter    *BodyParameter

	ResponsesLocation location.Location
	ResponsesValue    any
	Responses         map[string]*Response
}

// Placeholders counts the {param} segments of the path template.
func (o *Operation) Placeholders() int {
	n := 0
	for _, s := range o.Segments {
		if s.IsParam {
			n++
		}
	}
	return n
}

// Parameter is a typed path, query or header parameter, or a response header.
type Parameter struct {
	Name             string
	In               string
	Required         bool
	Type             string
	CollectionFormat string
	Definition       map[string]any
	Location         location.Location
	Operation        *Operation
}

// BodyParameter is the "in: body" parameter of an operation.
type BodyParameter struct {
	Name      string
	Required  bool
	Schema    Schema
	Location  location.Location
	Value     any
	Operation *Operation
}

// Response is one entry of an operation's responses.
type Response struct {
	Status   string
	Location location.Location
	Value    any
	Headers  map[string]*Parameter
	Schema   *Schema
}

// Schema is a JSON schema embedded in the spec.
type Schema struct {
	Value       any
	Location    location.Location
	definitions map[string]any
}

// At resolves a schema path such as "#/properties/id/type" relative to the
// schema, returning the location and the sub-schema found there. Paths into
// "#/definitions/..." resolve against the document's definitions unless the
// schema declares its own.
func (s Schema) At(schemaPath string) (location.Location, any) {
	trimmed := schemaPath
	if len(trimmed) >= 2 {
		trimmed = trimmed[2:]
	} else {
		trimmed = ""
	}

	loc := s.Location
	cur := s.Value
	if rest, ok := strings.CutPrefix(trimmed, "definitions/"); ok && !s.ownsDefinitions() {
		loc = location.Swagger().Field("definitions")
		cur = s.definitions
		trimmed = rest
	}
	for _, tok := range strings.Split(trimmed, "/") {
		if tok == "" {
			continue
		}
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		loc = loc.Field(tok)
		switch v := cur.(type) {
		case map[string]any:
			cur = v[tok]
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(v) {
				cur = nil
			} else {
				cur = v[i]
			}
		default:
			cur = nil
		}
	}
	return loc, cur
}

func (s Schema) ownsDefinitions() bool {
	obj, ok := s.Value.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["definitions"]
	return ok
}
