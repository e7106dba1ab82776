package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a row with an email that already exists
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateAccount is returned when trying to create a duplicate provider account link
	ErrDuplicateAccount = errors.New("provider account link already exists")

	// ErrDuplicateToken is returned when trying to create a magic link with an existing token
	ErrDuplicateToken = errors.New("magic link token already exists")
)
