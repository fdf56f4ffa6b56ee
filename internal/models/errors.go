package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrEmptyQuery       = errors.New("query is required")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidGraphID   = errors.New("graph id contains invalid characters")
	ErrMissingStatement = errors.New("init requires reset or at least one statement")
	ErrTooLong          = errors.New("field too long")
)

// ErrGraphNotFound is returned when a shared graph does not exist.
var ErrGraphNotFound = errors.New("graph not found")

// ErrQueryRejected wraps errors the database reports for the statement
// itself, such as syntax or constraint errors.
var ErrQueryRejected = errors.New("query rejected")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
// It matches ErrTooLong with errors.Is.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%w: %s exceeds maximum length of %d", ErrTooLong, field, maxLen)
}
