package mock

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
)

// Parse builds a Mock from a decoded pact document. It only structures the
// document; nothing is validated beyond the shape needed to read it.
func Parse(doc any, pathOrURL string) (*Mock, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &MalformedMockDocumentError{PathOrURL: pathOrURL, Reason: "document is not an object"}
	}

	rawInteractions, ok := root["interactions"].([]any)
	if !ok {
		return nil, &MalformedMockDocumentError{PathOrURL: pathOrURL, Reason: "missing interactions"}
	}

	m := &Mock{
		PathOrURL:    pathOrURL,
		Interactions: make([]*Interaction, 0, len(rawInteractions)),
	}

	for i, raw := range rawInteractions {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, &MalformedMockDocumentError{
				PathOrURL: pathOrURL,
				Reason:    fmt.Sprintf("interaction %d is not an object", i),
			}
		}
		m.Interactions = append(m.Interactions,
			parseInteraction(obj, location.Pact().Field("interactions").Index(i), pathOrURL))
	}

	return m, nil
}

func parseInteraction(obj map[string]any, loc location.Location, mockFile string) *Interaction {
	in := &Interaction{
		Description: stringOf(obj["description"]),
		State:       providerState(obj),
		Location:    loc,
		MockFile:    mockFile,
	}

	request, _ := obj["request"].(map[string]any)
	response, _ := obj["response"].(map[string]any)
	reqLoc := loc.Field("request")
	resLoc := loc.Field("response")

	in.RequestMethod = Value[string]{
		Value:       strings.ToLower(stringOf(request["method"])),
		Location:    reqLoc.Field("method"),
		Interaction: in,
	}

	rawPath := stringOf(request["path"])
	path, inlineQuery, _ := strings.Cut(rawPath, "?")
	pathLoc := reqLoc.Field("path")
	in.RequestPath = Value[string]{Value: path, Location: pathLoc, Interaction: in}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		in.RequestPathSegments = append(in.RequestPathSegments,
			Value[string]{Value: seg, Location: pathLoc, Interaction: in})
	}

	query := queryValues(inlineQuery)
	for name, values := range queryOf(request["query"]) {
		query[name] = append(query[name], values...)
	}
	in.RequestQuery = make(map[string]Value[string], len(query))
	queryLoc := reqLoc.Field("query")
	for name, values := range query {
		in.RequestQuery[name] = Value[string]{
			Value:       strings.Join(values, MultiValueSeparator),
			Location:    queryLoc.Field(name),
			Interaction: in,
		}
	}

	in.RequestHeaders = headersOf(in, request["headers"], reqLoc.Field("headers"))
	in.RequestBody = bodyOf(in, request, reqLoc.Field("body"))

	in.ResponseStatus = Value[int]{
		Value:       intOf(response["status"]),
		Location:    resLoc.Field("status"),
		Interaction: in,
	}
	in.ResponseHeaders = headersOf(in, response["headers"], resLoc.Field("headers"))
	in.ResponseBody = bodyOf(in, response, resLoc.Field("body"))

	return in
}

func providerState(obj map[string]any) string {
	if s, ok := obj["providerState"].(string); ok && s != "" {
		return s
	}
	if s, ok := obj["state"].(string); ok && s != "" {
		return s
	}
	if states, ok := obj["providerStates"].([]any); ok && len(states) > 0 {
		if first, ok := states[0].(map[string]any); ok {
			if s, ok := first["name"].(string); ok && s != "" {
				return s
			}
		}
	}
	return NoState
}

// queryValues decodes a query string such as "a=1&b=2&a=3".
// Malformed escapes keep their raw text rather than dropping the parameter.
func queryValues(raw string) map[string][]string {
	out := make(map[string][]string)
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		out[unescape(k)] = append(out[unescape(k)], unescape(v))
	}
	return out
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

func queryOf(raw any) map[string][]string {
	switch q := raw.(type) {
	case string:
		return queryValues(q)
	case map[string]any:
		out := make(map[string][]string, len(q))
		for name, v := range q {
			switch vals := v.(type) {
			case []any:
				for _, item := range vals {
					out[name] = append(out[name], stringOf(item))
				}
			default:
				out[name] = append(out[name], stringOf(vals))
			}
		}
		return out
	default:
		return nil
	}
}

func headersOf(owner *Interaction, raw any, loc location.Location) Headers {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	h := make(Headers, 0, len(names))
	for _, name := range names {
		var value string
		if values, ok := obj[name].([]any); ok {
			parts := make([]string, 0, len(values))
			for _, v := range values {
				parts = append(parts, stringOf(v))
			}
			value = strings.Join(parts, ", ")
		} else {
			value = stringOf(obj[name])
		}
		h = append(h, Header{
			Name:  name,
			Value: Value[string]{Value: value, Location: loc.Field(name), Interaction: owner},
		})
	}
	return h
}

func bodyOf(owner *Interaction, parent map[string]any, loc location.Location) Body {
	v, present := parent["body"]
	return Body{
		Value:   Value[any]{Value: v, Location: loc, Interaction: owner},
		Present: present,
	}
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprint(s)
	default:
		return fmt.Sprint(s)
	}
}

func intOf(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		var i int
		if _, err := fmt.Sscan(n, &i); err == nil {
			return i
		}
	}
	return 0
}
