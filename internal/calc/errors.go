// internal/calc/errors.go
// Package calc implements the validated arithmetic tool dispatcher: a fixed
// registry of five operations, a pure numeric validator, and a session wrapper
// that records one log entry per invocation.
package calc

import (
	"errors"
	"fmt"
)

// Kind classifies an invocation failure so boundary layers can map it to their
// own error representation without parsing message text.
type Kind string

const (
	// KindType indicates a non-numeric argument (string, list, null, ...).
	KindType Kind = "type_error"
	// KindInvalidValue indicates a NaN or infinite input or result.
	KindInvalidValue Kind = "invalid_value"
	// KindRange indicates a value outside its configured minimum/maximum.
	KindRange Kind = "range_error"
	// KindDivisionByZero indicates a zero divisor.
	KindDivisionByZero Kind = "division_by_zero"
	// KindMissingParameter indicates a required argument was absent.
	KindMissingParameter Kind = "missing_parameter"
	// KindUnknownOperation indicates an unregistered operation name.
	KindUnknownOperation Kind = "unknown_operation"
)

// Error is the typed failure value returned by Dispatch. The message names the
// offending parameter or value and never echoes caller-internal state.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the failure kind of err, or an empty Kind if err is not a
// dispatch error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a dispatch error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
