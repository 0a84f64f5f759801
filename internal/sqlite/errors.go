package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/specmaker/internal/repository"
)

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// wrapWriteError keeps the driver message and tags constraint failures.
func wrapWriteError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("failed to %s: %w: %v", op, repository.ErrConstraint, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
