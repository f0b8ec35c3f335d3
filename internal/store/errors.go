package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrUserNotFound, ErrRoleNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnavailable is returned when the storage backend is unreachable or
	// a call against it timed out. Errors of this kind are retryable.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConflict is returned when an operation is rejected because it
	// would violate referential integrity (e.g., deleting a role that is
	// still referenced by users).
	ErrConflict = errors.New("operation conflicts with existing references")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrRoleNotFound indicates that the requested role does not exist in the store.
	ErrRoleNotFound = fmt.Errorf("%w: role", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrRoleInUse indicates that a role cannot be deleted because users
	// still reference it.
	ErrRoleInUse = fmt.Errorf("%w: role is referenced by users", ErrConflict)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsUnavailableError checks if the error indicates a retryable backend failure.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
