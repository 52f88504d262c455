package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an update lost an optimistic
	// concurrency race; the caller should re-read and retry.
	ErrConflict = errors.New("version conflict")
)
