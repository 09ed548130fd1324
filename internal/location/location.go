// Package location provides addressable, human-readable paths into the mock
// and spec documents so that diagnostics can point back at their source.
package location

import (
	"strconv"
	"strings"
)

const (
	// PactRoot is the root marker for locations inside a mock document.
	PactRoot = "[pactRoot]"
	// SwaggerRoot is the root marker for locations inside a spec document.
	SwaggerRoot = "[swaggerRoot]"
)

type stepKind int

const (
	fieldStep stepKind = iota
	indexStep
)

type step struct {
	kind  stepKind
	field string
	index int
}

// Location is an immutable sequence of steps below a document root.
// The zero value is a location with no root and no steps.
type Location struct {
	root  string
	steps []step
}

// Pact returns the root location of a mock document.
func Pact() Location {
	return Location{root: PactRoot}
}

// Swagger returns the root location of a spec document.
func Swagger() Location {
	return Location{root: SwaggerRoot}
}

// Field returns a new Location with a field (or map key) step appended.
func (l Location) Field(name string) Location {
	return l.with(step{kind: fieldStep, field: name})
}

// Fields appends each name as a field step in turn.
func (l Location) Fields(names ...string) Location {
	out := l
	for _, n := range names {
		out = out.Field(n)
	}
	return out
}

// Index returns a new Location with an array index step appended.
func (l Location) Index(i int) Location {
	return l.with(step{kind: indexStep, index: i})
}

func (l Location) with(s step) Location {
	steps := make([]step, len(l.steps), len(l.steps)+1)
	copy(steps, l.steps)
	return Location{root: l.root, steps: append(steps, s)}
}

// String renders the location. Fields are joined with "." and indices are
// rendered as "[i]" directly after the preceding step.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.root)
	for i, s := range l.steps {
		switch s.kind {
		case indexStep:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(s.index))
			b.WriteString("]")
		default:
			if i > 0 || l.root != "" {
				b.WriteString(".")
			}
			b.WriteString(s.field)
		}
	}
	return b.String()
}
