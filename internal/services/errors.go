package services

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: missing, malformed or out-of-range values
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable marks failures of the underlying data source
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNotFound marks a missing record
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a write that collides with an existing record
	ErrConflict = errors.New("conflict")
	// ErrNotConfigured marks an optional integration that is switched off
	ErrNotConfigured = errors.New("not configured")
)
