// Package domainerrors provides coded errors for domain logic.
//
// Stores return sentinel errors (pkg/platform/sentinel) describing
// infrastructure facts; services translate those into coded errors here so
// callers can branch on the code without knowing which layer failed.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for the caller.
type Code string

const (
	// CodeUnauthorized marks a missing, invalid, or expired credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks an operation the policy denies for this actor.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks an absent target record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or concurrent-update conflict.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a domain invariant breach, including
	// illegal state transitions and provenance violations.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeValidation marks a malformed filter or parameter combination.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a structurally unusable request.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks a value rejected at a trust boundary parse.
	CodeInvalidInput Code = "invalid_input"
	// CodeInternal marks an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Construct with New or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes errors.Is compare coded errors by code and message, so tests can
// assert against a freshly constructed expected error.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return e.Code == te.Code && e.Message == te.Message
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/errors.As for sentinel checks.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is is shorthand for HasCode, reading naturally at call sites:
//
//	dErrors.Is(err, dErrors.CodeForbidden)
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
