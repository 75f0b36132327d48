package repo

import "errors"

var (
	// ErrNotFound is returned when no document matches, including malformed ids
	// and documents owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
)
