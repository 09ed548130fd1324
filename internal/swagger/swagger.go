// Package swagger checks the structural validity of a swagger document before
// any interaction is compared against it.
package swagger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/oastools/parser"
	"github.com/erraggy/oastools/validator"

	"github.com/andyballingall/swagger-mock-validator/internal/location"
	"github.com/andyballingall/swagger-mock-validator/internal/result"
)

// documentPath is the issue path oastools uses for problems with the
// document as a whole.
const documentPath = "document"

// Validate runs structural validation of doc and returns its errors and
// warnings, each as a result with source swagger-validation. mockFile is
// recorded on every result so that reports can name both documents.
func Validate(doc any, specFile, mockFile string) (errs, warnings []result.ValidationResult, err error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %q for validation: %w", specFile, err)
	}

	errs = []result.ValidationResult{}
	warnings = []result.ValidationResult{}

	parsed, err := parser.ParseWithOptions(parser.WithBytes(data))
	if err != nil {
		errs = append(errs, newResult(result.Error, documentPath, err.Error(), specFile, mockFile))
		return errs, warnings, nil
	}
	if !parsed.IsOAS2() {
		errs = append(errs, newResult(result.Error, "swagger",
			fmt.Sprintf("Unsupported document version %q, expected swagger 2.0", parsed.Version),
			specFile, mockFile))
		return errs, warnings, nil
	}

	res, err := validator.ValidateWithOptions(
		validator.WithParsed(*parsed),
		validator.WithIncludeWarnings(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to validate %q: %w", specFile, err)
	}

	for _, issue := range res.Errors {
		errs = append(errs, newResult(result.Error, issue.Path, issue.Message, specFile, mockFile))
	}
	for _, issue := range res.Warnings {
		warnings = append(warnings, newResult(result.Warning, issue.Path, issue.Message, specFile, mockFile))
	}
	sortResults(errs)
	sortResults(warnings)
	return errs, warnings, nil
}

func newResult(t result.Type, path, msg, specFile, mockFile string) result.ValidationResult {
	code := result.CodeSpecError
	if t == result.Warning {
		code = result.CodeSpecWarning
	}
	return result.ValidationResult{
		Code:    code,
		Message: msg,
		MockDetails: result.MockDetails{
			Location: location.Pact().String(),
			MockFile: mockFile,
		},
		Source: result.SourceSpecValidation,
		SpecDetails: result.SpecDetails{
			Location: specLocation(path),
			SpecFile: specFile,
		},
		Type: t,
	}
}

func specLocation(path string) string {
	path = strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	if path == "" || path == documentPath {
		return location.Swagger().String()
	}
	return location.Swagger().String() + "." + path
}

// sortResults orders results by location then message. oastools walks maps,
// so its issue order varies between runs.
func sortResults(rs []result.ValidationResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].SpecDetails.Location != rs[j].SpecDetails.Location {
			return rs[i].SpecDetails.Location < rs[j].SpecDetails.Location
		}
		return rs[i].Message < rs[j].Message
	})
}
