package services

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateStatus     = errors.New("status already set")
	ErrForbiddenTransition = errors.New("forbidden status transition")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("not allowed for this user")
	ErrActionFailed        = errors.New("action not allowed in current state")

	// ErrStaleState is returned when another writer changed the application
	// between our read and our conditional update.
	ErrStaleState = errors.New("application was modified concurrently")

	ErrAlreadyApplied = errors.New("already applied to this job")
)
