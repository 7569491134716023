package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditioned update affects zero
	// rows because another writer changed the row's status first.
	ErrConflict = errors.New("conflicting concurrent update")
)
