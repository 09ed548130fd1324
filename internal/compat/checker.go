package compat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/result"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
	"github.com/andyballingall/swagger-mock-validator/internal/validator"
)

const (
	incompatibleValue   = "Value is incompatible with the parameter defined in the swagger file: "
	arrayNotSupported   = `Validating parameters of type "array" are not supported, assuming value is valid: `
	requestBodyInvalid  = "Request body is incompatible with the request body schema in the swagger file: "
	responseBodyInvalid = "Response body is incompatible with the response body schema in the swagger file: "
)

// checker validates one interaction against the operation it was matched to.
type checker struct {
	in          *mock.Interaction
	op          *spec.Operation
	segments    []mock.Value[string]
	validator   validator.Validator
	requestStd  HeaderSet
	responseStd HeaderSet
	results     []result.ValidationResult
}

func (c *checker) run() []result.ValidationResult {
	c.checkPathParameters()
	c.checkQueryParameters()
	c.checkRequestHeaders()
	c.checkRequestBody()
	c.checkResponse()
	return c.results
}

func (c *checker) add(t result.Type, code result.Code, msg string,
	mockLoc location.Location, mockValue any, specLoc location.Location, specValue any,
) {
	r := newResult(c.in, c.op, t, code, msg)
	r.MockDetails.Location = mockLoc.String()
	r.MockDetails.Value = mockValue
	r.SpecDetails.Location = specLoc.String()
	r.SpecDetails.Value = specValue
	c.results = append(c.results, r)
}

// newResult fills in the interaction and operation context shared by every
// cross-validation result. op may be nil when no operation was matched.
func newResult(in *mock.Interaction, op *spec.Operation, t result.Type, code result.Code, msg string,
) result.ValidationResult {
	r := result.ValidationResult{
		Code:    code,
		Message: msg,
		MockDetails: result.MockDetails{
			InteractionDescription: in.Description,
			InteractionState:       in.State,
			MockFile:               in.MockFile,
		},
		Source: result.SourceMockValidation,
		Type:   t,
	}
	if op != nil {
		r.SpecDetails.PathMethod = op.Method
		r.SpecDetails.PathName = op.PathName
		r.SpecDetails.SpecFile = op.Spec.PathOrURL
	}
	return r
}

func (c *checker) checkPathParameters() {
	for i, seg := range c.op.Segments {
		if !seg.IsParam || i >= len(c.segments) {
			continue
		}
		param, ok := c.op.PathParameters[seg.ParamName()]
		if !ok {
			continue
		}
		c.checkValue(param, c.segments[i], result.CodePathIncompatible)
	}
}

func (c *checker) checkQueryParameters() {
	for _, param := range c.op.QueryParameters {
		value, ok := c.in.RequestQuery[param.Name]
		if !ok {
			if param.Required {
				c.add(result.Error, result.CodeQueryRequired,
					"Missing required query parameter: "+param.Name,
					c.in.RequestPath.Location, c.in.RequestPath.Value,
					param.Location, param.Definition)
			}
			continue
		}
		c.checkValue(param, value, result.CodeQueryIncompatible)
	}
}

// checkValue validates a single string against its parameter definition.
func (c *checker) checkValue(param *spec.Parameter, value mock.Value[string], code result.Code) {
	reason, err := checkParameter(c.validator, param, value.Value)
	if err != nil {
		reason = err.Error()
	}
	if reason == "" {
		return
	}
	c.add(result.Error, code, incompatibleValue+reason,
		value.Location, value.Value, param.Location, param.Definition)
}

type headerRules struct {
	declared      map[string]*spec.Parameter
	standard      HeaderSet
	undeclaredLoc location.Location
	undeclaredVal any
	codeInvalid   result.Code
	codeUnknown   result.Code
	codeStandard  result.Code
	codeArray     result.Code
	unknownMsg    string
	standardMsg   string
}

// checkHeaders applies the shared header rules to request or response headers.
func (c *checker) checkHeaders(headers mock.Headers, rules headerRules) {
	for _, h := range headers {
		name := strings.ToLower(h.Name)
		if name == "content-type" {
			continue
		}

		param, declared := rules.declared[name]
		switch {
		case declared && param.Type == "array":
			c.add(result.Warning, rules.codeArray, arrayNotSupported+name,
				h.Value.Location, h.Value.Value, param.Location, param.Definition)
		case declared:
			c.checkValue(param, h.Value, rules.codeInvalid)
		case rules.standard.Contains(name):
			c.add(result.Warning, rules.codeStandard, rules.standardMsg+name,
				h.Value.Location, h.Value.Value, rules.undeclaredLoc, rules.undeclaredVal)
		default:
			c.add(result.Error, rules.codeUnknown, rules.unknownMsg+name,
				h.Value.Location, h.Value.Value, rules.undeclaredLoc, rules.undeclaredVal)
		}
	}
}

func (c *checker) checkRequestHeaders() {
	c.checkHeaders(c.in.RequestHeaders, headerRules{
		declared:      c.op.RequestHeaderParameters,
		standard:      c.requestStd,
		undeclaredLoc: c.op.Location,
		undeclaredVal: c.op.Value,
		codeInvalid:   result.CodeRequestHeaderInvalid,
		codeUnknown:   result.CodeRequestHeaderUnknown,
		codeStandard:  result.CodeRequestHeaderStandard,
		codeArray:     result.CodeRequestHeaderArray,
		unknownMsg:    "Request header is not defined in the swagger file: ",
		standardMsg:   "Standard http request header is not defined in the swagger file: ",
	})
}

func (c *checker) checkRequestBody() {
	body := c.op.RequestBodyParameter
	if body == nil {
		if !c.in.RequestBody.IsEmpty() {
			c.add(result.Warning, result.CodeRequestBodyUnknown, "No schema found for request body",
				c.in.RequestBody.Location, c.in.RequestBody.Value.Value, c.op.Location, c.op.Value)
		}
		return
	}
	if !body.Required && c.in.RequestBody.IsEmpty() {
		return
	}
	c.checkBody(c.in.RequestBody, body.Schema, c.in.RequestBodyPath,
		result.CodeRequestBodyInvalid, requestBodyInvalid)
}

func (c *checker) checkBody(body mock.Body, schema spec.Schema, at func([]string) mock.Value[any],
	code result.Code, prefix string,
) {
	failures, err := c.validator.Validate(schema.Value, body.Value.Value)
	if err != nil {
		c.add(result.Error, code, prefix+err.Error(),
			body.Location, body.Value.Value, schema.Location, schema.Value)
		return
	}
	for _, f := range failures {
		mockValue := at(f.DataPath)
		specLoc, specValue := schema.At(f.SchemaPath)
		c.add(result.Error, code, prefix+f.Message,
			mockValue.Location, mockValue.Value, specLoc, specValue)
	}
}

func (c *checker) checkResponse() {
	status := c.in.ResponseStatus
	response, ok := c.op.Responses[strconv.Itoa(status.Value)]
	if !ok {
		response, ok = c.op.Responses[spec.DefaultResponse]
	}
	if !ok {
		c.add(result.Error, result.CodeResponseStatusUnknown,
			fmt.Sprintf("Response status code not defined in swagger file: %d", status.Value),
			status.Location, status.Value, c.op.ResponsesLocation, c.op.ResponsesValue)
		return
	}

	c.checkHeaders(c.in.ResponseHeaders, headerRules{
		declared:      response.Headers,
		standard:      c.responseStd,
		undeclaredLoc: response.Location,
		undeclaredVal: response.Value,
		codeInvalid:   result.CodeResponseHeaderInvalid,
		codeUnknown:   result.CodeResponseHeaderUnknown,
		codeStandard:  result.CodeResponseHeaderStandard,
		codeArray:     result.CodeResponseHeaderArray,
		unknownMsg:    "Response header is not defined in the swagger file: ",
		standardMsg:   "Standard http response header is not defined in the swagger file: ",
	})

	if response.Schema == nil {
		if !c.in.ResponseBody.IsEmpty() {
			c.add(result.Warning, result.CodeResponseBodyUnknown, "No schema found for response body",
				c.in.ResponseBody.Location, c.in.ResponseBody.Value.Value, response.Location, response.Value)
		}
		return
	}
	if !c.in.ResponseBody.Present {
		return
	}
	c.checkBody(c.in.ResponseBody, *response.Schema, c.in.ResponseBodyPath,
		result.CodeResponseBodyInvalid, responseBodyInvalid)
}
