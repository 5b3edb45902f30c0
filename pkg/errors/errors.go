// Package errors provides structured error types for netergm.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the loader, term builder and comparator
//   - Machine-readable error codes for programmatic handling
//   - Enough context (term name, node identifiers) to diagnose a failure
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Data loading fails with [ErrCodeSchema], [ErrCodeAlignment] or
// [ErrCodeShape]. Term specification fails with [ErrCodeUnknownTerm] or
// [ErrCodeUnsupportedTerm]. Estimation fails with [ErrCodeNonConvergence].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShape, "adjacency has %d rows and %d columns", r, c)
//	if errors.Is(err, errors.ErrCodeShape) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data loading errors
	ErrCodeSchema    Code = "SCHEMA_ERROR"
	ErrCodeAlignment Code = "ALIGNMENT_ERROR"
	ErrCodeShape     Code = "SHAPE_ERROR"

	// Term specification errors
	ErrCodeUnknownTerm     Code = "UNKNOWN_TERM"
	ErrCodeUnsupportedTerm Code = "UNSUPPORTED_TERM"

	// Estimation errors
	ErrCodeNonConvergence Code = "NON_CONVERGENCE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeNetwork      Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Human-readable message
	Cause   error    // Underlying error (optional)
	Term    string   // Term involved, if any
	Nodes   []string // Node identifiers involved, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Term != "" {
		fmt.Fprintf(&b, "term %s: ", e.Term)
	}
	b.WriteString(e.Message)
	if len(e.Nodes) > 0 {
		fmt.Fprintf(&b, " (nodes: %s)", strings.Join(e.Nodes, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithTerm records the term the error concerns and returns e.
func (e *Error) WithTerm(term string) *Error {
	e.Term = term
	return e
}

// WithNodes records the node identifiers the error concerns and returns e.
func (e *Error) WithNodes(ids ...string) *Error {
	e.Nodes = append(e.Nodes, ids...)
	return e
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
		msg := e.Message
		if e.Term != "" {
			msg = "term " + e.Term + ": " + msg
		}
		return msg
	}
	return err.Error()
}
