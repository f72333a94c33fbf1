package database

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate document")
)
