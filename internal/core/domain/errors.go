package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrRemoteUnavailable indicates no remote store is configured or reachable.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates an operation needs a signed-in user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the supplied credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
