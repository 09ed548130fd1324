// Package mock normalises a pact document into location-aware interactions.
package mock

import (
	"strconv"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
)

// NoState is the provider state of an interaction which declares none.
const NoState = "[none]"

// MultiValueSeparator joins the values of a query parameter given more than once.
const MultiValueSeparator = "[multi-array-separator]"

// Value is a datum taken from the mock together with where it came from.
type Value[T any] struct {
	Value       T
	Location    location.Location
	Interaction *Interaction
}

// Header is one request or response header as written in the mock.
type Header struct {
	Name  string
	Value Value[string]
}

// Headers are kept sorted by name so that iteration is deterministic.
type Headers []Header

// Body is a request or response body. Present is false when the interaction
// has no body key at all, which is distinct from an explicit JSON null.
type Body struct {
	Value[any]
	Present bool
}

// IsEmpty reports whether the body is absent or holds a falsy JSON value:
// null, false, 0 or the empty string.
func (b Body) IsEmpty() bool {
	if !b.Present {
		return true
	}
	switch v := b.Value.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	}
	return false
}

// Mock is a parsed pact document.
type Mock struct {
	PathOrURL    string
	Interactions []*Interaction
}

// Interaction is one recorded request/response pair.
type Interaction struct {
	Description string
	State       string
	Location    location.Location
	MockFile    string

	RequestMethod       Value[string]
	RequestPath         Value[string]
	RequestPathSegments []Value[string]
	RequestQuery        map[string]Value[string]
	RequestHeaders      Headers
	RequestBody         Body

	ResponseStatus  Value[int]
	ResponseHeaders Headers
	ResponseBody    Body
}

// RequestBodyPath addresses a value nested inside the request body.
// tokens are the unescaped segments of a JSON pointer.
func (i *Interaction) RequestBodyPath(tokens []string) Value[any] {
	return bodyPath(i, i.RequestBody, tokens)
}

// ResponseBodyPath addresses a value nested inside the response body.
func (i *Interaction) ResponseBodyPath(tokens []string) Value[any] {
	return bodyPath(i, i.ResponseBody, tokens)
}

func bodyPath(owner *Interaction, body Body, tokens []string) Value[any] {
	loc := body.Location
	cur := body.Value.Value
	for _, tok := range tokens {
		switch v := cur.(type) {
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				loc = loc.Field(tok)
				cur = nil
				continue
			}
			loc = loc.Index(idx)
			if idx >= 0 && idx < len(v) {
				cur = v[idx]
			} else {
				cur = nil
			}
		case map[string]any:
			loc = loc.Field(tok)
			cur = v[tok]
		default:
			loc = loc.Field(tok)
			cur = nil
		}
	}
	return Value[any]{Value: cur, Location: loc, Interaction: owner}
}
