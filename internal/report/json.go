package report

import (
	"encoding/json"
	"io"

	"github.com/andyballingall/swagger-mock-validator/internal/result"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonOutput struct {
	Errors   []result.ValidationResult `json:"errors"`
	Warnings []result.ValidationResult `json:"warnings"`
}

func (jr *JSONReporter) Write(w io.Writer, r *Report) error {
	out := jsonOutput{
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
	if out.Errors == nil {
		out.Errors = []result.ValidationResult{}
	}
	if out.Warnings == nil {
		out.Warnings = []result.ValidationResult{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
