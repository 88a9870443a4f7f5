package repositories

import (
	"errors"
	"fmt"
	"strings"

	"groupchat/internal/db"
)

var (
	// ErrConflict is returned when an insert violates a unique constraint.
	ErrConflict = errors.New("unique constraint violated")
	// ErrUsernameTaken is the ErrConflict raised by the users.username constraint.
	ErrUsernameTaken = fmt.Errorf("username taken: %w", ErrConflict)
)

func mapInsertError(err error, op string) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintMentions(err error, column string) bool {
	return strings.Contains(err.Error(), column)
}
