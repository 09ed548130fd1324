package validator

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const resourceURL = "mem://swagger-mock-validator/schema.json"

var printer = message.NewPrinter(language.English)

// NewSanthoshValidator returns a Validator backed by santhosh-tekuri/jsonschema/v6.
// definitions are made available to every schema so that "#/definitions/..."
// references resolve.
func NewSanthoshValidator(definitions map[string]any) Validator {
	return &santhoshValidator{definitions: definitions}
}

type santhoshValidator struct {
	definitions map[string]any
}

// Validate compiles schema with a fresh compiler on every call, so it is safe
// for concurrent use.
func (sv *santhoshValidator) Validate(schema JSONSchema, doc JSONDocument) ([]Failure, error) {
	obj, ok := schema.(map[string]any)
	if !ok {
		return nil, nil
	}

	resource := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		resource[k] = v
	}
	if _, ok := resource["definitions"]; !ok && sv.definitions != nil {
		resource["definitions"] = sv.definitions
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft4)
	if err := c.AddResource(resourceURL, resource); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	var out []Failure
	collect(verr, &out)
	return out, nil
}

// collect walks the error tree and records its leaves. anyOf and oneOf are
// reported once on the combinator rather than once per failing branch.
func collect(e *jsonschema.ValidationError, out *[]Failure) {
	switch e.ErrorKind.(type) {
	case *kind.AnyOf, *kind.OneOf:
		*out = append(*out, failure(e))
		return
	}
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			collect(c, out)
		}
		return
	}
	*out = append(*out, expand(e)...)
}

// expand emits one failure per missing property or additional property,
// the way draft-04 validators conventionally report them.
func expand(e *jsonschema.ValidationError) []Failure {
	switch k := e.ErrorKind.(type) {
	case *kind.Required:
		out := make([]Failure, 0, len(k.Missing))
		for _, m := range k.Missing {
			f := failure(e)
			f.Message = fmt.Sprintf("should have required property '%s'", m)
			out = append(out, f)
		}
		return out
	case *kind.AdditionalProperties:
		out := make([]Failure, 0, len(k.Properties))
		for _, p := range k.Properties {
			f := failure(e)
			f.DataPath = append(f.DataPath, p)
			out = append(out, f)
		}
		return out
	}
	return []Failure{failure(e)}
}

func failure(e *jsonschema.ValidationError) Failure {
	dataPath := make([]string, len(e.InstanceLocation))
	copy(dataPath, e.InstanceLocation)
	return Failure{
		DataPath:   dataPath,
		SchemaPath: schemaPath(e),
		Message:    kindMessage(e.ErrorKind),
	}
}

// schemaPath renders the failing keyword as a fragment of the compiled
// resource, e.g. "#/definitions/User/properties/id/type".
func schemaPath(e *jsonschema.ValidationError) string {
	_, frag, _ := strings.Cut(e.SchemaURL, "#")
	if unescaped, err := url.PathUnescape(frag); err == nil {
		frag = unescaped
	}
	var sb strings.Builder
	sb.WriteString("#")
	sb.WriteString(strings.TrimSuffix(frag, "/"))
	for _, tok := range e.ErrorKind.KeywordPath() {
		sb.WriteString("/")
		sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1"))
	}
	return sb.String()
}

func kindMessage(ek jsonschema.ErrorKind) string {
	switch k := ek.(type) {
	case *kind.Type:
		return "should be " + strings.Join(k.Want, ",")
	case *kind.Enum:
		return "should be equal to one of the allowed values"
	case *kind.Const:
		return "should be equal to constant"
	case *kind.AdditionalProperties:
		return "should NOT have additional properties"
	case *kind.MinLength:
		return fmt.Sprintf("should NOT be shorter than %d characters", k.Want)
	case *kind.MaxLength:
		return fmt.Sprintf("should NOT be longer than %d characters", k.Want)
	case *kind.Minimum:
		return "should be >= " + rat(k.Want)
	case *kind.Maximum:
		return "should be <= " + rat(k.Want)
	case *kind.ExclusiveMinimum:
		return "should be > " + rat(k.Want)
	case *kind.ExclusiveMaximum:
		return "should be < " + rat(k.Want)
	case *kind.MultipleOf:
		return "should be multiple of " + rat(k.Want)
	case *kind.Pattern:
		return fmt.Sprintf("should match pattern %q", k.Want)
	case *kind.Format:
		return fmt.Sprintf("should match format %q", k.Want)
	case *kind.MinItems:
		return fmt.Sprintf("should NOT have less than %d items", k.Want)
	case *kind.MaxItems:
		return fmt.Sprintf("should NOT have more than %d items", k.Want)
	case *kind.UniqueItems:
		return fmt.Sprintf("should NOT have duplicate items (items ## %d and %d are identical)",
			k.Duplicates[1], k.Duplicates[0])
	case *kind.MinProperties:
		return fmt.Sprintf("should NOT have less than %d properties", k.Want)
	case *kind.MaxProperties:
		return fmt.Sprintf("should NOT have more than %d properties", k.Want)
	case *kind.AnyOf:
		return "should match some schema in anyOf"
	case *kind.OneOf:
		return "should match exactly one schema in oneOf"
	case *kind.Not:
		return "should NOT be valid"
	}
	return ek.LocalizedString(printer)
}

func rat(r *big.Rat) string {
	if r == nil {
		return ""
	}
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}
