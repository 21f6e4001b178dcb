// Package errors provides structured error types for Verilive.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server, and the parser
//   - Machine-readable error codes for programmatic handling
//   - Parse locations (section, block, line) for diagnosing netlist format drift
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - MALFORMED_* / UNKNOWN_* / UNRESOLVED_*: Netlist parse failures (fatal)
//   - AMBIGUOUS_*: Recoverable parse findings, reported as warnings
//   - INVALID_*: Input validation failures
//   - COMPILE_* / TIMEOUT / RENDER_*: External toolchain failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownVariant, "unknown elaboration %q", tok)
//	if errors.Is(err, errors.ErrCodeUnknownVariant) {
//	    // Handle format drift
//	}
//
//	// Attach a location
//	err = errors.New(errors.ErrCodeMalformedLine, "bad width").At(errors.Location{Section: "SCOPES", Block: 3, Line: 2})
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Netlist parse errors
	ErrCodeMalformedSection   Code = "MALFORMED_SECTION"
	ErrCodeMalformedBlock     Code = "MALFORMED_BLOCK"
	ErrCodeMalformedLine      Code = "MALFORMED_LINE"
	ErrCodeUnknownVariant     Code = "UNKNOWN_VARIANT"
	ErrCodeUnknownDirection   Code = "UNKNOWN_DIRECTION"
	ErrCodeUnresolvedNet      Code = "UNRESOLVED_NET"
	ErrCodeAmbiguousDirection Code = "AMBIGUOUS_DIRECTION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidView   Code = "INVALID_VIEW"

	// Toolchain errors
	ErrCodeCompileFailed Code = "COMPILE_FAILED"
	ErrCodeTimeout       Code = "TIMEOUT"
	ErrCodeRenderFailed  Code = "RENDER_FAILED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Location pinpoints where in a netlist an error was detected.
// Block and Line are zero-based; Line is relative to the start of the block.
type Location struct {
	Section string
	Block   int
	Line    int
	Text    string
}

// String formats the location as "SECTION block N line M: <text>".
func (l Location) String() string {
	s := fmt.Sprintf("%s block %d line %d", l.Section, l.Block, l.Line)
	if l.Text != "" {
		s += fmt.Sprintf(": %q", l.Text)
	}
	return s
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code     Code      // Machine-readable error code
	Message  string    // Human-readable message
	Cause    error     // Underlying error (optional)
	Location *Location // Netlist position (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Location != nil {
		msg += " (at " + e.Location.String() + ")"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At attaches a location and returns the same error for chaining.
// An existing location is kept: the innermost position is the most precise.
func (e *Error) At(loc Location) *Error {
	if e.Location == nil {
		e.Location = &loc
	}
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

// GetLocation extracts the netlist location from an error chain, if any.
func GetLocation(err error) (Location, bool) {
	var e *Error
	if errors.As(err, &e) && e.Location != nil {
		return *e.Location, true
	}
	return Location{}, false
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

// IsFatal reports whether a parse error code aborts the parse.
// AMBIGUOUS_DIRECTION is the only recoverable parse finding.
func IsFatal(code Code) bool {
	return code != ErrCodeAmbiguousDirection
}
