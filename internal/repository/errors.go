package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrLimitReached is returned when a conditional insert was refused because the
	// guarded count had already reached its limit
	ErrLimitReached = errors.New("limit reached")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrDuplicate is returned when a unique constraint fails
	ErrDuplicate = errors.New("duplicate")

	// ErrConstraint is returned when a write violates a CHECK constraint. Retrying
	// the same write cannot succeed.
	ErrConstraint = errors.New("constraint violation")

	// ErrUnavailable is returned when the store failed for infrastructure reasons
	ErrUnavailable = errors.New("store unavailable")
)
