// Package report renders the outcome of a validation run.
package report

import (
	"io"
	"time"

	"github.com/andyballingall/swagger-mock-validator/internal/result"
)

// Reporter defines the interface for creating formatted validation reports.
type Reporter interface {
	Write(w io.Writer, report *Report) error
}

// Report is the outcome of validating one mock against one spec.
type Report struct {
	SpecFile  string
	MockFile  string
	StartTime time.Time
	EndTime   time.Time
	Errors    []result.ValidationResult
	Warnings  []result.ValidationResult
}

// Compatible reports whether the run found no errors.
func (r *Report) Compatible() bool {
	return len(r.Errors) == 0
}
