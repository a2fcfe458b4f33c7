package gotmem

import "fmt"

// ValidationError indicates malformed or out-of-range input to an add/create
// operation. The operation is rejected before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError indicates an operation referenced an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry not found: %s", e.ID)
}

// StorageError wraps an opaque failure from the injected persistence layer.
// It is surfaced unchanged to the caller.
type StorageError struct {
	Op    string // The store operation that failed
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("storage error: %s", e.Op)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates a provider returned a different number of
// translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
