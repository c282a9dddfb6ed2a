package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrResultNotFound = fmt.Errorf("%w: result", ErrNotFound)
	ErrJobNotFound    = fmt.Errorf("%w: job", ErrNotFound)

	// Input errors
	ErrNoData            = errors.New("no data found in any tables")
	ErrNoFiles           = errors.New("no files provided")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds size limit")

	// Consolidation errors
	ErrStagingFailed  = errors.New("staging failed")
	ErrRowCountDrift  = errors.New("row count mismatch between source and consolidated data")
	ErrColumnMismatch = errors.New("column mismatch")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUnsupportedFormatError(filename string) error {
	return fmt.Errorf("%w: %s (expected .xlsx or .xls)", ErrUnsupportedFormat, filename)
}

func NewRowCountDriftError(expected, actual int) error {
	return fmt.Errorf("%w: expected %d rows, got %d", ErrRowCountDrift, expected, actual)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrFileTooLarge)
}
