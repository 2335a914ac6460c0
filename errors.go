package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrEmptyData indicates that the source holds no header row at all
	ErrEmptyData = errors.New("catalog: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("catalog: unsupported file format")

	// ErrFetch indicates that a remote source could not be retrieved
	ErrFetch = errors.New("catalog: fetch failed")

	// ErrTooLarge indicates that a source exceeds the configured size limit
	ErrTooLarge = errors.New("catalog: source too large")

	// ErrNotFound indicates that a local source does not exist
	ErrNotFound = errors.New("catalog: source not found")

	// ErrInvalidTableName indicates a table name that cannot be turned into an SQL identifier
	ErrInvalidTableName = errors.New("catalog: invalid table name")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	Source    string
	Format    string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, source string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		Source:    source,
	}
}

// WithFormat adds the input or output format to the error context
func (ec *ErrorContext) WithFormat(format string) *ErrorContext {
	ec.Format = format
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("catalog: %s failed", ec.Operation)}

	if ec.Source != "" {
		parts = append(parts, "source: "+ec.Source)
	}
	if ec.Format != "" {
		parts = append(parts, "format: "+ec.Format)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	msg := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", msg, baseErr)
	}
	return errors.New(msg)
}
