package compat

import (
	"fmt"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/result"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
)

// match is an interaction paired with the operation it was matched to.
// segments are the request path segments after the base path was removed.
type match struct {
	operation *spec.Operation
	segments  []mock.Value[string]
}

// matchOperation finds the single operation that best fits the interaction.
// When there is none, or the best fit is ambiguous, the returned result
// describes why.
func matchOperation(s *spec.Spec, in *mock.Interaction) (*match, *result.ValidationResult) {
	segments := requestSegments(s.BasePath, in)

	var best []*spec.Operation
	bestPlaceholders := -1
	for _, op := range s.Operations {
		if !strings.EqualFold(op.Method, in.RequestMethod.Value) || !segmentsMatch(op.Segments, segments) {
			continue
		}
		n := op.Placeholders()
		switch {
		case bestPlaceholders < 0 || n < bestPlaceholders:
			best = []*spec.Operation{op}
			bestPlaceholders = n
		case n == bestPlaceholders:
			best = append(best, op)
		}
	}

	switch len(best) {
	case 0:
		r := newResult(in, nil, result.Error, result.CodePathOrMethodUnknown,
			fmt.Sprintf("Path or method not defined in swagger file: %s %s",
				strings.ToUpper(in.RequestMethod.Value), in.RequestPath.Value))
		r.MockDetails.Location = in.RequestPath.Location.String()
		r.MockDetails.Value = in.RequestPath.Value
		r.SpecDetails.Location = s.Paths.String()
		r.SpecDetails.SpecFile = s.PathOrURL
		r.SpecDetails.Value = s.PathsValue
		return nil, &r
	case 1:
		return &match{operation: best[0], segments: segments}, nil
	}

	locations := make([]string, 0, len(best))
	for _, op := range best {
		locations = append(locations, op.Location.String())
	}
	r := newResult(in, nil, result.Error, result.CodePathOrMethodAmbiguous,
		fmt.Sprintf("Request matches more than one operation in the swagger file: %s",
			strings.Join(locations, ", ")))
	r.MockDetails.Location = in.RequestPath.Location.String()
	r.MockDetails.Value = in.RequestPath.Value
	r.SpecDetails.Location = s.Paths.String()
	r.SpecDetails.SpecFile = s.PathOrURL
	r.SpecDetails.Value = s.PathsValue
	return nil, &r
}

// requestSegments strips the base path, when it prefixes the request path,
// and splits the remainder into non-empty segments.
func requestSegments(basePath string, in *mock.Interaction) []mock.Value[string] {
	path := in.RequestPath.Value
	if basePath != "" && strings.HasPrefix(path, basePath) {
		path = strings.TrimPrefix(path, basePath)
	}

	var out []mock.Value[string]
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		out = append(out, mock.Value[string]{
			Value:       seg,
			Location:    in.RequestPath.Location,
			Interaction: in,
		})
	}
	return out
}

func segmentsMatch(template []spec.Segment, segments []mock.Value[string]) bool {
	if len(template) != len(segments) {
		return false
	}
	for i, t := range template {
		if t.IsParam {
			continue
		}
		if !strings.EqualFold(t.Text, segments[i].Value) {
			return false
		}
	}
	return true
}
