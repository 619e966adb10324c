package attendance

import "time"

// Collection is the Firestore collection holding attendance records.
const Collection = "attendance"

// MaxNoteLength clamps free-text notes.
const MaxNoteLength = 500

// Record is one confirmed attendance. Exactly one record is created per
// successful check-in, inside the same transaction that flips the booking to
// checked-in; records are never created on their own.
type Record struct {
	ID          string    `firestore:"id" json:"id"`
	UserID      string    `firestore:"userId" json:"userId"`
	SessionID   string    `firestore:"sessionId" json:"sessionId"`
	ClassName   string    `firestore:"className" json:"className"`
	ClassDate   time.Time `firestore:"classDate" json:"classDate"`
	CheckInTime time.Time `firestore:"checkInTime" json:"checkInTime"`
	Note        string    `firestore:"note,omitempty" json:"note,omitempty"`
	RecordedBy  string    `firestore:"recordedBy" json:"recordedBy"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}
