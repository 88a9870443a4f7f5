package services

import (
	"errors"
	"strings"
)

// Domain errors returned by the services. Handlers match them with errors.Is.
var (
	ErrInvalidToken      = errors.New("invalid user token")
	ErrUserNotFound      = errors.New("user not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAlreadyMember     = errors.New("user is already a member of this group")
	ErrNotAMember        = errors.New("user is not a member of this group")
	ErrPersistence       = errors.New("persistence failure")
)

// ValidationError carries every rule the input violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, ", ")
}

// PersistenceError wraps a store failure that is not a constraint violation
// the service knows how to interpret. errors.Is(err, ErrPersistence) holds.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// ErrorKind names the domain error category of err, for metrics and logs.
func ErrorKind(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return "validation"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(err, ErrMessageNotFound):
		return "message_not_found"
	case errors.Is(err, ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, ErrNotAMember):
		return "not_a_member"
	default:
		return "persistence"
	}
}
