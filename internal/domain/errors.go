package domain

import "errors"

var (
	// ErrInvalidInput is matched by every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("task not found")
	ErrConflict     = errors.New("task has been modified")
	ErrDuplicateID  = errors.New("task id already exists")
)

var (
	ErrInvalidTitle    = NewValidationError("Task title is required and must be a non-empty string")
	ErrInvalidPriority = NewValidationError(`Priority must be either "low", "medium", or "high"`)
	ErrInvalidDueDate  = NewValidationError("Due date must be an ISO 8601 date string")
)

// ValidationError carries a message that is safe to show to API callers.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
