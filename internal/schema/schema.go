// Package schema defines the validation rules for every record entering or
// leaving the system. Each record kind has an explicit rule function that
// aggregates one error per violated field; Check* returns the result form
// used at system boundaries, Validate* wraps the same rules as an error.
package schema

import (
	"fmt"
	"strings"
)

// FieldError pairs a field path with a human-readable reason.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the non-throwing validation outcome.
type Result struct {
	OK     bool
	Errors []FieldError
}

// ValidationError is the error form of a failed validation. It carries the
// same field errors the Result form would.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func resultOf(errs []FieldError) Result {
	return Result{OK: len(errs) == 0, Errors: errs}
}

func errorOf(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
