package services

import "fmt"

// ValidationError is malformed input: end before start, past date, missing
// required field, seat count outside the request ceiling. Surfaced
// immediately, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError is an overlap or capacity violation. For time conflicts
// BookingID, StartTime and EndTime identify the blocking booking so the
// caller can show why the slot is taken. For seat-capacity conflicts
// FreeSeats carries how many seats remain at the table.
type ConflictError struct {
	BookingID uint
	StartTime string
	EndTime   string
	FreeSeats *int
	Message   string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError means a referenced space, table or booking does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// StoreError wraps an underlying store read/write failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
