package entity

import "fmt"

// ValidationError reports input that fails a business rule: blank required
// field, bad email format, exceeded length cap, duplicate email/username,
// non-positive id. It always represents a client fault.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// StorageError reports an adapter-level failure: connectivity loss, an
// unexpected driver error, or a unique-constraint violation that slipped past
// the application-level duplicate check. Conflict marks the latter case.
type StorageError struct {
	Op       string
	Conflict bool
	Err      error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func NewConflictError(op string, err error) *StorageError {
	return &StorageError{Op: op, Conflict: true, Err: err}
}

func (e *StorageError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("storage %s: unique constraint violated: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
