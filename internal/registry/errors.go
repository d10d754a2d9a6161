package registry

import (
	"errors"
	"fmt"
)

// Errors returned while building a registry.
var (
	// ErrBuildFailed is returned by Build when any section fails.
	// The cause is wrapped alongside it.
	ErrBuildFailed = errors.New("registry build failed")

	// ErrNesting indicates an unbalanced or misordered group marker.
	ErrNesting = errors.New("invalid group nesting")

	// ErrAllocation indicates the backing store could not grow.
	ErrAllocation = errors.New("allocation failed")

	// ErrBuilderDone indicates use of a builder after Build returned.
	ErrBuilderDone = errors.New("builder already finished")

	// ErrDuplicate indicates two findable entries with the same name.
	ErrDuplicate = errors.New("duplicate setting name")
)

// NestingError describes a misplaced group marker.
type NestingError struct {
	// Op is the marker being appended, e.g. "EndSubgroup".
	Op string
	// Name is the group or subgroup involved, if any.
	Name string
	// Reason says what state the builder was in.
	Reason string
}

// Error implements the error interface.
func (e *NestingError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: %s", e.Op, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Unwrap returns ErrNesting.
func (e *NestingError) Unwrap() error {
	return ErrNesting
}
