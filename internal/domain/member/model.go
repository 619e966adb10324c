package member

import "time"

const (
	// Collection holds member profiles, owned by the external
	// member-management side; read-only here.
	Collection = "members"
	// ProgressCollection holds per-member progress snapshots, written only
	// by the check-in transaction.
	ProgressCollection = "progress"
)

// DefaultBeltRank seeds a progress snapshot created on first check-in.
const DefaultBeltRank = "white"

// Member is the read-only profile of an academy member.
type Member struct {
	UID         string    `firestore:"uid" json:"uid"`
	DisplayName string    `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	JoinedAt    time.Time `firestore:"joinedAt" json:"joinedAt"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}

// ProgressSnapshot tracks a member's cumulative attendance and rank state.
// TotalAttended is incremented by exactly one per successful check-in, in
// the same transaction that creates the attendance record.
type ProgressSnapshot struct {
	UserID           string    `firestore:"userId" json:"userId"`
	BeltRank         string    `firestore:"beltRank" json:"beltRank"`
	Stripes          int       `firestore:"stripes" json:"stripes"`
	TotalAttended    int       `firestore:"totalAttended" json:"totalAttended"`
	LastAttendanceAt time.Time `firestore:"lastAttendanceAt" json:"lastAttendanceAt"`
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// NewProgressSnapshot is the snapshot created on a member's first check-in.
func NewProgressSnapshot(userID string, now time.Time) ProgressSnapshot {
	return ProgressSnapshot{
		UserID:           userID,
		BeltRank:         DefaultBeltRank,
		Stripes:          0,
		TotalAttended:    1,
		LastAttendanceAt: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
