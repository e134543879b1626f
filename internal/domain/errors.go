package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField         = errors.New("missing field")
	ErrTooShort             = errors.New("too short")
	ErrNotPositiveInteger   = errors.New("not a positive integer")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrNotInFuture          = errors.New("not in the future")
	ErrClosedDay            = errors.New("closed day")
	ErrOutsideServiceWindow = errors.New("outside service window")
	ErrInvalidInitialStatus = errors.New("invalid initial status")
	ErrInvalidStatus        = errors.New("invalid status")

	ErrFinishedStatusImmutable  = errors.New("a finished reservation cannot be updated")
	ErrCancelledStatusImmutable = errors.New("a cancelled reservation cannot be updated")
	ErrInvalidTransition        = errors.New("status transition not allowed")

	ErrNotFound                = errors.New("not found")
	ErrConflictAlreadyOccupied = errors.New("table is occupied")
	ErrConflictNotBooked       = errors.New("reservation is not booked")
	ErrConflictNotOccupied     = errors.New("table is not occupied")
	ErrInsufficientCapacity    = errors.New("table does not have sufficient capacity")
)

// ValidationError is the first failing rule of a validation pipeline.
// Kind is one of the sentinel errors above, so callers can use errors.Is.
type ValidationError struct {
	Kind    error
	Rule    string
	Field   string
	Message string
}

func NewValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Kind)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// IsClientError reports whether err is a validation or precondition failure
// the caller can fix, as opposed to a storage or transport failure.
func IsClientError(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, kind := range []error{
		ErrFinishedStatusImmutable,
		ErrCancelledStatusImmutable,
		ErrInvalidTransition,
		ErrConflictAlreadyOccupied,
		ErrConflictNotBooked,
		ErrConflictNotOccupied,
		ErrInsufficientCapacity,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
