// Package errors provides structured error types for the bicluster layout core.
//
// Errors carry a machine-readable [Code] so that the CLI and the HTTP server can
// map failures to exit codes and status codes without string matching.
//
// Degenerate geometry (empty overlaps, zero-size nodes, NaN positions) is never
// reported through this package: the layout treats it as "nothing to do this
// frame". Errors are reserved for input, configuration and I/O failures.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (config values, dataset shape)
//   - DATA_UNAVAILABLE: fewer than three correlated matrices
//   - SCAN_FAILED: a membership threshold scan failed for one cluster
//   - NOT_FOUND: unknown node or file
//   - RENDER_*: sink failures
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "repulsion must be positive, got %g", v)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // report and exit
//	}
//
//	err := errors.Wrap(errors.ErrCodeScanFailed, cause, "cluster %d", idx)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Data errors
	ErrCodeDataUnavailable Code = "DATA_UNAVAILABLE"
	ErrCodeScanFailed      Code = "SCAN_FAILED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeCacheFailed  Code = "CACHE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// ScanError records the failure of one cluster's threshold scan. The scan pool
// collects these instead of aborting sibling tasks.
type ScanError struct {
	Cluster int   // Cluster index whose scan failed
	Err     error // Underlying failure (a recovered panic is wrapped as an error)
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan cluster %d: %v", e.Cluster, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ScanError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *ScanError) Code() Code {
	return ErrCodeScanFailed
}
