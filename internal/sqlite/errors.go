package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/revtrack/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// storeErr classifies a driver error. Constraint failures map to their sentinel;
// anything else is an infrastructure failure.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrLimitReached):
		return err
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrForeignKeyViolation)
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrDuplicate)
	case isCheckViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrConstraint, err)
	default:
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrUnavailable, err)
	}
}
