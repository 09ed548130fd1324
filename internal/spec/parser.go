package spec

import (
	"sort"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
)

const maxRefDepth = 32

// Parse builds a Spec from a decoded swagger document.
func Parse(doc any, pathOrURL string) (*Spec, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &MalformedSpecDocumentError{PathOrURL: pathOrURL, Reason: "document is not an object"}
	}

	paths, ok := root["paths"].(map[string]any)
	if !ok {
		return nil, &MalformedSpecDocumentError{PathOrURL: pathOrURL, Reason: "missing paths"}
	}

	basePath, _ := root["basePath"].(string)
	definitions, _ := root["definitions"].(map[string]any)

	s := &Spec{
		PathOrURL:   pathOrURL,
		BasePath:    strings.TrimSuffix(basePath, "/"),
		Paths:       location.Swagger().Field("paths"),
		PathsValue:  paths,
		Definitions: definitions,
	}

	p := &parser{root: root, spec: s}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		item, ok := paths[name].(map[string]any)
		if !ok {
			continue
		}
		pathLoc := s.Paths.Field(name)
		for _, method := range Methods {
			opValue, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			s.Operations = append(s.Operations, p.operation(name, method, item, opValue, pathLoc))
		}
	}

	return s, nil
}

type parser struct {
	root map[string]any
	spec *Spec
}

type rawParam struct {
	value map[string]any
	loc   location.Location
}

func (p *parser) operation(
	pathName, method string, item, opValue map[string]any, pathLoc location.Location,
) *Operation {
	opLoc := pathLoc.Field(method)
	op := &Operation{
		PathName:                pathName,
		Method:                  method,
		Location:                opLoc,
		Value:                   opValue,
		Spec:                    p.spec,
		Segments:                segments(pathName),
		PathParameters:          map[string]*Parameter{},
		RequestHeaderParameters: map[string]*Parameter{},
		Responses:               map[string]*Response{},
	}

	for _, rp := range p.mergedParameters(item, opValue, pathLoc, opLoc) {
		p.addParameter(op, rp)
	}

	op.ResponsesLocation = opLoc.Field("responses")
	responses, _ := opValue["responses"].(map[string]any)
	op.ResponsesValue = responses
	for status, raw := range responses {
		op.Responses[status] = p.response(status, raw, op.ResponsesLocation.Field(status))
	}

	return op
}

// mergedParameters combines path level and operation level parameters.
// An operation level parameter replaces a path level one with the same name and location.
func (p *parser) mergedParameters(item, opValue map[string]any, pathLoc, opLoc location.Location) []rawParam {
	var out []rawParam
	index := map[string]int{}

	add := func(list any, loc location.Location) {
		arr, _ := list.([]any)
		for i, raw := range arr {
			v, ok := p.resolve(raw).(map[string]any)
			if !ok {
				continue
			}
			name, _ := v["name"].(string)
			in, _ := v["in"].(string)
			key := in + ":" + name
			rp := rawParam{value: v, loc: loc.Index(i)}
			if at, ok := index[key]; ok {
				out[at] = rp
				continue
			}
			index[key] = len(out)
			out = append(out, rp)
		}
	}

	add(item["parameters"], pathLoc.Field("parameters"))
	add(opValue["parameters"], opLoc.Field("parameters"))
	return out
}

func (p *parser) addParameter(op *Operation, rp rawParam) {
	in, _ := rp.value["in"].(string)
	name, _ := rp.value["name"].(string)
	required, _ := rp.value["required"].(bool)

	if in == "body" {
		schema := Schema{
			Value:       rp.value["schema"],
			Location:    rp.loc.Field("schema"),
			definitions: p.spec.Definitions,
		}
		op.RequestBodyParameter = &BodyParameter{
			Name:      name,
			Required:  required,
			Schema:    schema,
			Location:  rp.loc,
			Value:     rp.value,
			Operation: op,
		}
		return
	}

	param := newParameter(name, in, rp.value, rp.loc)
	param.Required = required
	param.Operation = op

	switch in {
	case "path":
		op.PathParameters[name] = param
	case "query":
		op.QueryParameters = append(op.QueryParameters, param)
	case "header":
		op.RequestHeaderParameters[strings.ToLower(name)] = param
	}
}

func (p *parser) response(status string, raw any, loc location.Location) *Response {
	value, _ := p.resolve(raw).(map[string]any)
	r := &Response{
		Status:   status,
		Location: loc,
		Value:    value,
		Headers:  map[string]*Parameter{},
	}

	if schema, ok := value["schema"]; ok && schema != nil {
		r.Schema = &Schema{Value: schema, Location: loc.Field("schema"), definitions: p.spec.Definitions}
	}

	headers, _ := value["headers"].(map[string]any)
	for name, h := range headers {
		def, ok := p.resolve(h).(map[string]any)
		if !ok {
			continue
		}
		r.Headers[strings.ToLower(name)] = newParameter(name, "header", def, loc.Fields("headers", name))
	}

	return r
}

func newParameter(name, in string, def map[string]any, loc location.Location) *Parameter {
	typ, _ := def["type"].(string)
	collectionFormat, _ := def["collectionFormat"].(string)
	return &Parameter{
		Name:             name,
		In:               in,
		Type:             typ,
		CollectionFormat: collectionFormat,
		Definition:       def,
		Location:         loc,
	}
}

// resolve follows local "$ref" pointers such as "#/parameters/limit".
// Unresolvable references are returned unchanged.
func (p *parser) resolve(v any) any {
	for range maxRefDepth {
		obj, ok := v.(map[string]any)
		if !ok {
			return v
		}
		ref, ok := obj["$ref"].(string)
		if !ok || !strings.HasPrefix(ref, "#/") {
			return v
		}
		target, found := pointer(p.root, ref[2:])
		if !found {
			return v
		}
		v = target
	}
	return v
}

func pointer(root any, ptr string) (any, bool) {
	cur := root
	for _, tok := range strings.Split(ptr, "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[tok]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func segments(pathName string) []Segment {
	var out []Segment
	for _, s := range strings.Split(pathName, "/") {
		if s == "" {
			continue
		}
		out = append(out, Segment{
			Text:    s,
			IsParam: strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"),
		})
	}
	return out
}
