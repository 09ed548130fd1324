package compat

import (
	"strconv"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
	"github.com/andyballingall/swagger-mock-validator/internal/validator"
)

// schemaKeywords are the parameter properties that carry JSON schema meaning.
var schemaKeywords = []string{
	"type", "format", "enum", "items",
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	"minLength", "maxLength", "pattern",
	"minItems", "maxItems", "uniqueItems",
}

var collectionSeparators = map[string]string{
	"":      ",",
	"csv":   ",",
	"ssv":   " ",
	"tsv":   "\t",
	"pipes": "|",
	"multi": mock.MultiValueSeparator,
}

// checkParameter validates a raw string taken from a path, query string or
// header against a parameter definition. It returns the reason the value is
// incompatible, or "" when it is compatible.
func checkParameter(v validator.Validator, p *spec.Parameter, raw string) (string, error) {
	value, reason := coerce(p.Definition, p.CollectionFormat, raw)
	if reason != "" {
		return reason, nil
	}

	failures, err := v.Validate(parameterSchema(p.Definition), value)
	if err != nil {
		return "", err
	}
	if len(failures) > 0 {
		return failures[0].Message, nil
	}
	return "", nil
}

// coerce converts raw into the JSON value implied by the definition's type.
// Arrays are split on the separator of their collectionFormat.
func coerce(def map[string]any, collectionFormat, raw string) (any, string) {
	typ, _ := def["type"].(string)
	switch typ {
	case "integer", "number":
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, "should be " + typ
		}
		return n, ""
	case "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil || (raw != "true" && raw != "false") {
			return nil, "should be boolean"
		}
		return b, ""
	case "array":
		items, _ := def["items"].(map[string]any)
		itemsFormat, _ := items["collectionFormat"].(string)
		sep, ok := collectionSeparators[collectionFormat]
		if !ok {
			sep = ","
		}
		var parts []string
		if raw != "" {
			parts = strings.Split(raw, sep)
		}
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			item, reason := coerce(items, itemsFormat, part)
			if reason != "" {
				return nil, reason
			}
			out = append(out, item)
		}
		return out, ""
	default:
		return raw, ""
	}
}

// parameterSchema builds a JSON schema from the schema keywords of a
// parameter definition, recursing into array items.
func parameterSchema(def map[string]any) map[string]any {
	out := make(map[string]any, len(schemaKeywords))
	for _, k := range schemaKeywords {
		v, ok := def[k]
		if !ok {
			continue
		}
		if k == "items" {
			if items, ok := v.(map[string]any); ok {
				out[k] = parameterSchema(items)
			}
			continue
		}
		out[k] = v
	}
	return out
}
