// Package errhandling provides error types and classification for the filter runtime.
// This file defines error categories, classification functions, and the mapping
// from error categories to process exit codes.
package errhandling

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorCategory represents the type/category of an error.
// Categories decide whether a run must abort.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryConfig represents criteria configuration errors: unreadable or
	// unparsable documents, schema violations, disallowed operators.
	// Config errors are fatal and abort the run before any record is read.
	CategoryConfig ErrorCategory = "config"

	// CategoryIO represents record stream errors (input cannot be opened,
	// output cannot be created or written).
	// IO errors are fatal.
	CategoryIO ErrorCategory = "io"

	// CategoryResolution represents a field that could not be resolved on a record.
	// Resolution misses only fail the affected record and never stop the run.
	CategoryResolution ErrorCategory = "resolution"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

// Common errors
var (
	// ErrConfigParse marks a criteria document that could not be read or parsed.
	ErrConfigParse = errors.New("criteria could not be parsed")
	// ErrConfigInvalid marks a criteria document that parsed but is not acceptable.
	ErrConfigInvalid = errors.New("invalid criteria")
)

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Message is a human-readable error message.
	Message string

	// Path is the file the error relates to, if any.
	Path string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
// IO errors carry their cause, which names the failing system call.
func (e *ClassifiedError) Error() string {
	msg := e.Message
	if e.Category == CategoryIO && e.OriginalErr != nil && !strings.Contains(e.OriginalErr.Error(), msg) {
		msg = msg + ": " + e.OriginalErr.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s error: %s: %s", e.Category, e.Path, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Category, msg)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// NewConfigError creates a ClassifiedError for configuration errors.
func NewConfigError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryConfig,
		Message:     message,
		OriginalErr: originalErr,
	}
}

// NewIOError creates a ClassifiedError for record stream errors on path.
func NewIOError(path, message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryIO,
		Message:     message,
		Path:        path,
		OriginalErr: originalErr,
	}
}

// NewResolutionError creates a ClassifiedError describing a field that could
// not be resolved. It is only used for diagnostics.
func NewResolutionError(field, message string) *ClassifiedError {
	return &ClassifiedError{
		Category: CategoryResolution,
		Message:  fmt.Sprintf("field %q: %s", field, message),
	}
}

// ClassifyError classifies any error into a ClassifiedError.
// Already classified errors are returned as-is; filesystem errors are io errors.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{
			Category: CategoryUnknown,
			Message:  "nil error",
		}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, ErrConfigParse) || errors.Is(err, ErrConfigInvalid) {
		return NewConfigError(err.Error(), err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return NewIOError(pathErr.Path, pathErr.Err.Error(), err)
	}

	return &ClassifiedError{
		Category:    CategoryUnknown,
		Message:     err.Error(),
		OriginalErr: err,
	}
}

// GetErrorCategory returns the error category for a given error.
// Returns CategoryUnknown for nil or unclassified errors.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}
	return ClassifyError(err).Category
}

// IsFatal returns true if the error must abort the run.
// Fatal categories: Config, IO. Unknown errors are treated as fatal as well
// since nothing can be resumed safely.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetErrorCategory(err) != CategoryResolution
}

// ExitCode maps an error to the process exit code.
//
//   - nil: 0
//   - invalid criteria (schema violation, disallowed operator): 1
//   - unparsable or unreadable criteria: 2
//   - io and anything else: 3
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrConfigParse):
		return ExitParseError
	case errors.Is(err, ErrConfigInvalid):
		return ExitValidationError
	}
	if GetErrorCategory(err) == CategoryConfig {
		return ExitValidationError
	}
	return ExitRuntimeError
}
