package booking

import (
	"fmt"

	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/identity"
)

// The rules below are the whole of the booking state machine's decision
// logic. They are pure so that the storage transaction merely collects their
// inputs under isolation and applies their verdict atomically.

// reserveCheck validates a seat reservation. activeCount is the number of
// bookings currently holding a seat in the session; alreadyActive reports
// whether the requesting user is among them.
func reserveCheck(sess *session.Session, activeCount int, alreadyActive bool) error {
	if sess == nil {
		return fmt.Errorf("%w", ErrSessionNotFound)
	}
	if !sess.Bookable() {
		return fmt.Errorf("%w: session is %s", ErrSessionNotBookable, sess.Status)
	}
	if alreadyActive {
		return fmt.Errorf("%w: user already holds a seat in this session", ErrAlreadyBooked)
	}
	if activeCount >= sess.MaxCapacity {
		return fmt.Errorf("%w: %d/%d seats taken", ErrSessionFull, activeCount, sess.MaxCapacity)
	}
	return nil
}

// checkInCheck validates the booked -> checked_in transition. A repeat
// check-in is rejected, not silently absorbed.
func checkInCheck(b *Booking) error {
	if b == nil {
		return fmt.Errorf("%w", ErrBookingNotFound)
	}
	switch b.Status {
	case StatusBooked:
		return nil
	case StatusCheckedIn:
		return fmt.Errorf("%w", ErrAlreadyCheckedIn)
	case StatusCancelled:
		return fmt.Errorf("%w", ErrBookingCancelled)
	default:
		return fmt.Errorf("%w: unexpected status %q", ErrBadRequest, b.Status)
	}
}

// cancelCheck validates the booked -> cancelled transition. Only the owning
// user or an operator may cancel, and only while the booking is still booked.
func cancelCheck(b *Booking, actor identity.Actor) error {
	if b == nil {
		return fmt.Errorf("%w", ErrBookingNotFound)
	}
	if b.UserID != actor.UID && !actor.Operator() {
		return fmt.Errorf("%w: only the owner or an operator may cancel", ErrUnauthorized)
	}
	if b.Status != StatusBooked {
		return fmt.Errorf("%w: booking is %s", ErrNotCancellable, b.Status)
	}
	return nil
}
