package service

import "fmt"

// ValidationError marks client-correctable input errors: invalid status
// transitions, references outside the workflow catalog, malformed fields.
// The HTTP layer maps it to 400, distinct from storage.ErrNotFound (404)
// and storage.ErrConflict (409).
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
