// Package errors provides structured error types for pomgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Parse failures carry one code per failure class so callers can react to
// a specific condition (skip, report, abort) without string matching:
//   - NOT_FOUND / PERMISSION_DENIED: filesystem preconditions
//   - MALFORMED_XML / NOT_A_POM / PARSE_FAILURE: document-level failures
//   - INVALID_*: input validation failures
//   - NO_INPUT: a scan that produced nothing to aggregate
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotAPom, "root element <%s> is not a project descriptor", tag)
//	if errors.Is(err, errors.ErrCodeNotAPom) {
//	    // Skip the file, keep scanning
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedXML, xmlErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Filesystem precondition errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodePermissionDenied Code = "PERMISSION_DENIED"

	// Document-level parse errors
	ErrCodeMalformedXML Code = "MALFORMED_XML"
	ErrCodeNotAPom      Code = "NOT_A_POM"
	ErrCodeParseFailure Code = "PARSE_FAILURE"

	// Input validation errors
	ErrCodeInvalidPattern Code = "INVALID_PATTERN"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Batch-level errors
	ErrCodeNoInput Code = "NO_INPUT"

	// Infrastructure errors
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
