package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConstraint is returned when a write violates a table constraint
	ErrConstraint = errors.New("constraint violation")

	// ErrLockUnavailable is returned when the store lock could not be acquired
	ErrLockUnavailable = errors.New("database lock unavailable")
)
