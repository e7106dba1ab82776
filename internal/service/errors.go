package service

import "errors"

// Domain-level errors surfaced to the boundary. Handlers map these to
// HTTP statuses; everything else is treated as an internal failure and
// surfaced opaquely. Several internal failure variants collapse into a
// single sentinel on purpose so callers cannot distinguish them.
var (
	// ErrInvalidCredentials covers unknown email, passwordless account and
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidMagicLink covers unknown, expired, already-used and
	// email-mismatched magic links alike.
	ErrInvalidMagicLink = errors.New("invalid or expired magic link")

	// ErrConflict is returned when a storage uniqueness constraint fires
	// during OAuth identity resolution or waitlist signup.
	ErrConflict = errors.New("resource already exists")

	// ErrUserNotFound is returned when a token's user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for malformed, tampered or expired
	// bearer tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)
