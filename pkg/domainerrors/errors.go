// Package domainerrors gives every layer of the engine one enumerated error
// shape instead of ad-hoc error strings or panics. Handlers and callers
// switch on Code, never on message text.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code enumerates the stable, caller-facing error classification. New codes
// should be added here rather than encoded into message strings.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeNotFound        Code = "not_found"
	CodeUnauthorized    Code = "unauthorized"
	CodeConflict        Code = "conflict"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal_error"
	CodeBudgetExceeded  Code = "budget_exceeded"
	CodeCircuitOpen     Code = "circuit_open"
	CodeProviderMissing Code = "provider_not_found"
)

// httpStatus maps each code to the status a transport layer should use.
// Kept here so every transport (HTTP today, anything else tomorrow) agrees.
var httpStatus = map[Code]int{
	CodeBadRequest:      400,
	CodeUnauthorized:    401,
	CodeNotFound:        404,
	CodeConflict:        409,
	CodeBudgetExceeded:  422,
	CodeUnavailable:     503,
	CodeCircuitOpen:     503,
	CodeProviderMissing: 500,
	CodeInternal:        500,
}

// Error is the concrete error type every package in this module should
// return across a package boundary.
type Error struct {
	Code       Code
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Underlying }

// New builds an Error carrying only a code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving it for
// errors.Is/As and logging while giving callers a stable code to switch on.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Underlying: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// GetCode extracts the Code from err, defaulting to CodeInternal when err
// was not produced by this package.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus returns the status code a transport should use for err.
func HTTPStatus(err error) int {
	if status, ok := httpStatus[GetCode(err)]; ok {
		return status
	}
	return 500
}
