// Package common defines shared constants and sentinel errors used across
// filehub components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal        = errors.New("internal error")
	ErrUnauthenticated = errors.New("unauthorized")

	// Upload validation errors. Parent problems are reported as two distinct
	// cases so the caller can tell "missing" from "wrong variant" apart.
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrInvalidData     = errors.New("invalid data")

	// Content retrieval errors.
	ErrFolderHasNoContent = errors.New("a folder doesn't have content")
)

// MissingFieldError reports a required request field that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s", e.Field)
}

// NewMissingFieldError returns a MissingFieldError for the given field name.
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

// AsMissingField extracts a MissingFieldError from err, if any.
func AsMissingField(err error) (*MissingFieldError, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf, true
	}
	return nil, false
}
