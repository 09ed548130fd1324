// Package result defines ValidationResult, the single diagnostic shape
// produced by both structural spec validation and mock/spec cross-validation.
package result

import (
	"encoding/json"
)

// Type classifies a result as breaking or advisory.
type Type string

const (
	// Error means the mock is not compatible with the spec.
	Error Type = "error"
	// Warning means the spec cannot judge the mock, which is assumed compatible.
	Warning Type = "warning"
)

// Source identifies the validation step that produced a result.
type Source string

const (
	// SourceSpecValidation is structural validation of the spec document itself.
	SourceSpecValidation Source = "swagger-validation"
	// SourceMockValidation is cross-validation of the mock against the spec.
	SourceMockValidation Source = "swagger-mock-validation"
)

// Code is a stable identifier for the kind of problem reported.
type Code string

// Codes reported while matching an interaction to an operation.
const (
	// CodePathOrMethodUnknown means no operation has the interaction's method and path.
	CodePathOrMethodUnknown Code = "spv.request.path-or-method.unknown"
	// CodePathOrMethodAmbiguous means several operations match equally well.
	CodePathOrMethodAmbiguous Code = "spv.request.path-or-method.ambiguous"
)

// Codes reported against the request of a matched interaction.
const (
	// CodePathIncompatible means a path segment does not satisfy its path parameter.
	CodePathIncompatible Code = "spv.request.path.incompatible"
	// CodeQueryIncompatible means a query value does not satisfy its query parameter.
	CodeQueryIncompatible Code = "spv.request.query.incompatible"
	// CodeQueryRequired means a required query parameter is missing from the request.
	CodeQueryRequired Code = "spv.request.query.required"
	// CodeRequestHeaderInvalid means a declared request header has an incompatible value.
	CodeRequestHeaderInvalid Code = "spv.request.header.incompatible"
	// CodeRequestHeaderUnknown means the request sends a header the operation does not declare.
	CodeRequestHeaderUnknown Code = "spv.request.header.unknown"
	// CodeRequestHeaderStandard is a warning for an undeclared standard http request header.
	CodeRequestHeaderStandard Code = "spv.request.header.standard"
	// CodeRequestHeaderArray is a warning that array typed request headers are not validated.
	CodeRequestHeaderArray Code = "spv.request.header.array"
	// CodeRequestBodyInvalid means the request body fails the body parameter's schema.
	CodeRequestBodyInvalid Code = "spv.request.body.incompatible"
	// CodeRequestBodyUnknown is a warning for a request body the operation has no schema for.
	CodeRequestBodyUnknown Code = "spv.request.body.unknown"
)

// Codes reported against the response of a matched interaction.
const (
	// CodeResponseStatusUnknown means neither the status nor a default response is declared.
	CodeResponseStatusUnknown Code = "spv.response.status.unknown"
	// CodeResponseHeaderInvalid means a declared response header has an incompatible value.
	CodeResponseHeaderInvalid Code = "spv.response.header.incompatible"
	// CodeResponseHeaderUnknown means the response sends a header the response does not declare.
	CodeResponseHeaderUnknown Code = "spv.response.header.unknown"
	// CodeResponseHeaderStandard is a warning for an undeclared standard http response header.
	CodeResponseHeaderStandard Code = "spv.response.header.standard"
	// CodeResponseHeaderArray is a warning that array typed response headers are not validated.
	CodeResponseHeaderArray Code = "spv.response.header.array"
	// CodeResponseBodyInvalid means the response body fails the response schema.
	CodeResponseBodyInvalid Code = "spv.response.body.incompatible"
	// CodeResponseBodyUnknown is a warning for a response body the response has no schema for.
	CodeResponseBodyUnknown Code = "spv.response.body.unknown"
)

// Codes reported by structural validation of the spec document.
const (
	CodeSpecError   Code = "sv.error"
	CodeSpecWarning Code = "sv.warning"
)

// MockDetails locates the mock side of a result.
// Empty InteractionDescription and InteractionState are written as JSON null.
type MockDetails struct {
	InteractionDescription string
	InteractionState       string
	Location               string
	MockFile               string
	Value                  any
}

// SpecDetails locates the spec side of a result.
// Empty PathMethod and PathName are written as JSON null.
type SpecDetails struct {
	Location   string
	PathMethod string
	PathName   string
	SpecFile   string
	Value      any
}

// ValidationResult is one error or warning.
type ValidationResult struct {
	Code        Code        `json:"code"`
	Message     string      `json:"message"`
	MockDetails MockDetails `json:"mockDetails"`
	Source      Source      `json:"source"`
	SpecDetails SpecDetails `json:"specDetails"`
	Type        Type        `json:"type"`
}

// IsError reports whether the result breaks compatibility.
func (r ValidationResult) IsError() bool {
	return r.Type == Error
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (d MockDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		InteractionDescription *string `json:"interactionDescription"`
		InteractionState       *string `json:"interactionState"`
		Location               string  `json:"location"`
		MockFile               string  `json:"mockFile"`
		Value                  any     `json:"value"`
	}{
		InteractionDescription: nullable(d.InteractionDescription),
		InteractionState:       nullable(d.InteractionState),
		Location:               d.Location,
		MockFile:               d.MockFile,
		Value:                  d.Value,
	})
}

func (d SpecDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Location   string  `json:"location"`
		PathMethod *string `json:"pathMethod"`
		PathName   *string `json:"pathName"`
		SpecFile   string  `json:"specFile"`
		Value      any     `json:"value"`
	}{
		Location:   d.Location,
		PathMethod: nullable(d.PathMethod),
		PathName:   nullable(d.PathName),
		SpecFile:   d.SpecFile,
		Value:      d.Value,
	})
}

// Partition splits results into errors and warnings, preserving order.
// Both returned slices are non-nil.
func Partition(results []ValidationResult) (errs, warnings []ValidationResult) {
	errs = []ValidationResult{}
	warnings = []ValidationResult{}
	for _, r := range results {
		if r.IsError() {
			errs = append(errs, r)
		} else {
			warnings = append(warnings, r)
		}
	}
	return errs, warnings
}
