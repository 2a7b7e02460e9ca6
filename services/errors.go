package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate these
// into HTTP statuses and application codes.
var (
	// ErrInvalidArgument marks malformed or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a duplicate check-in for the same user and date, or a
	// registration clash on email/username.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an absent record for a requested key.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a failed credential check.
	ErrUnauthorized = errors.New("unauthorized")
)
