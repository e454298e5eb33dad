// Package validate holds the error type for input validation failures. An
// Error carries every violation an operation could cheaply detect, so a
// caller sees all missing fields at once rather than one per round trip.
package validate

import "strings"

// Error is an input-validation failure. The gateway maps it to 400.
type Error struct {
	Violations []string
}

// NewError returns an Error carrying the given violations.
func NewError(violations ...string) *Error {
	return &Error{Violations: violations}
}

func (e *Error) Error() string {
	return strings.Join(e.Violations, "; ")
}
