package app

import (
	"fmt"

	"github.com/andyballingall/swagger-mock-validator/internal/result"
)

// NotCompatibleError is returned when cross-validation finds at least one error.
type NotCompatibleError struct {
	SpecFile string
	MockFile string
	Errors   []result.ValidationResult
	Warnings []result.ValidationResult
}

func (e *NotCompatibleError) Error() string {
	return fmt.Sprintf("%q is not compatible with %q", e.MockFile, e.SpecFile)
}

// InvalidSpecError is returned when the spec document fails structural validation.
type InvalidSpecError struct {
	SpecFile string
	Errors   []result.ValidationResult
	Warnings []result.ValidationResult
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("%q is not a valid swagger file", e.SpecFile)
}

// WarningsNotAllowedError is returned for a warnings-only outcome when
// warnings are configured to fail the run.
type WarningsNotAllowedError struct {
	MockFile string
	Count    int
}

func (e *WarningsNotAllowedError) Error() string {
	return fmt.Sprintf("%q produced %d warning(s) and warnings are not allowed", e.MockFile, e.Count)
}

// NothingToWatchError is returned when watch mode is requested but neither
// document is a local file.
type NothingToWatchError struct{}

func (e *NothingToWatchError) Error() string {
	return "watch mode needs the spec or the mock to be a local file"
}
