// Package validator provides JSON Schema validation of mock values against
// schemas taken from the spec.
package validator

// Draft represents a JSON Schema draft version.
type Draft string

// Draft4 is the JSON Schema draft that Swagger 2 schemas are written in.
const Draft4 Draft = "http://json-schema.org/draft-04/schema#"

// A JSONDocument is a parsed JSON value - i.e. the result of json.Unmarshal().
type JSONDocument interface{}

// A JSONSchema is a parsed JSON document representing a JSON Schema.
type JSONSchema JSONDocument

// Failure is one reason a document does not satisfy a schema.
type Failure struct {
	// DataPath holds the path tokens of the offending value within the document.
	DataPath []string
	// SchemaPath is the failing keyword, e.g. "#/properties/id/type".
	SchemaPath string
	Message    string
}

// Validator validates a JSON document against a JSON schema.
type Validator interface {
	// Validate returns the failures found, which is empty when doc is valid.
	// An error is returned when the schema itself cannot be compiled.
	Validate(schema JSONSchema, doc JSONDocument) ([]Failure, error)
}
