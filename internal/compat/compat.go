// Package compat cross-validates pact interactions against swagger operations.
package compat

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/result"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
	"github.com/andyballingall/swagger-mock-validator/internal/validator"
)

// Outcome holds the results of cross-validating a mock against a spec.
type Outcome struct {
	Errors   []result.ValidationResult
	Warnings []result.ValidationResult
}

type options struct {
	parallelism int
	requestStd  HeaderSet
	responseStd HeaderSet
	validator   validator.Validator
}

// Option configures Validate.
type Option func(*options)

// WithParallelism bounds how many interactions are checked concurrently.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithAdditionalStandardHeaders treats extra names as standard in both
// requests and responses, so undeclared occurrences are warnings.
func WithAdditionalStandardHeaders(names ...string) Option {
	return func(o *options) {
		o.requestStd = o.requestStd.With(names...)
		o.responseStd = o.responseStd.With(names...)
	}
}

// WithValidator replaces the JSON schema validator.
func WithValidator(v validator.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// Validate checks every interaction of m against s. Results are returned in
// interaction order, whatever the parallelism.
func Validate(ctx context.Context, s *spec.Spec, m *mock.Mock, opts ...Option) (Outcome, error) {
	o := options{
		parallelism: runtime.NumCPU(),
		requestStd:  StandardRequestHeaders(),
		responseStd: StandardResponseHeaders(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.validator == nil {
		o.validator = validator.NewSanthoshValidator(s.Definitions)
	}

	perInteraction := make([][]result.ValidationResult, len(m.Interactions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, in := range m.Interactions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perInteraction[i] = validateInteraction(s, in, &o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	var all []result.ValidationResult
	for _, rs := range perInteraction {
		all = append(all, rs...)
	}
	errs, warnings := result.Partition(all)
	return Outcome{Errors: errs, Warnings: warnings}, nil
}

func validateInteraction(s *spec.Spec, in *mock.Interaction, o *options) []result.ValidationResult {
	m, failure := matchOperation(s, in)
	if failure != nil {
		return []result.ValidationResult{*failure}
	}
	c := &checker{
		in:          in,
		op:          m.operation,
		segments:    m.segments,
		validator:   o.validator,
		requestStd:  o.requestStd,
		responseStd: o.responseStd,
	}
	return c.run()
}
