package database

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when a staff username violates the
	// unique constraint.
	ErrUsernameTaken = errors.New("username already taken")
)
