// Package apperr defines the typed error values shared by services and
// resolvers. Each error carries a machine-readable code, surfaced to
// GraphQL clients through the error extensions, separate from the
// human-readable message.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies an error class across the service boundary.
type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAssignmentFailed   Code = "ASSIGNMENT_FAILED"
	CodeNoModification     Code = "NO_MODIFICATION"
	CodeUpstream           Code = "UPSTREAM"
)

// Error is a typed failure with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Extensions implements gqlerrors.ExtendedError so the code appears in
// the GraphQL error extensions.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

// New builds an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a collaborator failure (database, hasher, token service).
// The upstream detail stays in the message chain and is logged server-side.
func Upstream(message string, err error) *Error {
	return &Error{Code: CodeUpstream, Message: message, Err: err}
}

// CodeOf extracts the code from err, or CodeUpstream for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUpstream
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
