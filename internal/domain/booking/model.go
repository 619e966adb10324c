package booking

import "time"

// Collection is the Firestore collection holding bookings.
const Collection = "bookings"

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCheckedIn Status = "checked_in"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the states that hold a seat. Capacity is always the
// count of bookings in one of these states, derived live.
var ActiveStatuses = []string{string(StatusBooked), string(StatusCheckedIn)}

// Booking is a member's claim on one seat in a session.
//
// Lifecycle: booked -> checked_in (terminal) or booked -> cancelled
// (terminal). A cancelled booking is never resurrected; booking again after
// a cancel creates a fresh row.
type Booking struct {
	ID          string     `firestore:"id" json:"id"`
	UserID      string     `firestore:"userId" json:"userId"`
	SessionID   string     `firestore:"sessionId" json:"sessionId"`
	Status      Status     `firestore:"status" json:"status"`
	CheckInTime *time.Time `firestore:"checkInTime,omitempty" json:"checkInTime,omitempty"`
	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

// Active reports whether the booking currently holds a seat.
func (b Booking) Active() bool {
	return b.Status == StatusBooked || b.Status == StatusCheckedIn
}

// CheckInResult is the compound outcome of a successful check-in.
type CheckInResult struct {
	Booking    Booking           `json:"booking"`
	Attendance AttendanceSummary `json:"attendance"`
}

// AttendanceSummary echoes the record created by the check-in.
type AttendanceSummary struct {
	ID          string    `json:"id"`
	ClassName   string    `json:"className"`
	CheckInTime time.Time `json:"checkInTime"`
	Note        string    `json:"note"`
}
