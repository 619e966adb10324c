package booking

import (
	"errors"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")

	// Reserve rejections. Each maps to a machine reason code at the HTTP
	// edge; all are conflict-style failures with no side effects, safe for
	// the caller to retry with corrected intent.
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotBookable = errors.New("session not bookable")
	ErrAlreadyBooked      = errors.New("already booked")
	ErrSessionFull        = errors.New("session full")

	// Lifecycle rejections.
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrBookingCancelled = errors.New("booking cancelled")
	ErrNotCancellable   = errors.New("booking not cancellable")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrBookingNotFound)
}

// IsErrConflict reports whether err is a conflict-style rejection.
func IsErrConflict(err error) bool {
	for _, target := range []error{
		ErrSessionNotBookable,
		ErrAlreadyBooked,
		ErrSessionFull,
		ErrAlreadyCheckedIn,
		ErrBookingCancelled,
		ErrNotCancellable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
