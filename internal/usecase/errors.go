package usecase

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every booking rule violation, so callers can
// treat them as one class of client error.
var ErrValidation = errors.New("validation failed")

var (
	ErrPastDate          = fmt.Errorf("%w: booking date cannot be in the past", ErrValidation)
	ErrCapacityExceeded  = fmt.Errorf("%w: expected attendees exceed hall capacity", ErrValidation)
	ErrInvalidTimeRange  = fmt.Errorf("%w: start time must be before end time", ErrValidation)
	ErrTimeConflict      = fmt.Errorf("%w: time slot conflicts with existing booking", ErrValidation)
	ErrDuplicateSlot     = fmt.Errorf("%w: hall already has a booking starting at this time", ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: booking cannot change to the requested status", ErrValidation)
)

var (
	ErrInvalidCapacity    = errors.New("capacity must be one of 100, 200, 300, 500")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// IsConflict reports whether err is a slot collision rather than a plain input error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTimeConflict) || errors.Is(err, ErrDuplicateSlot)
}
