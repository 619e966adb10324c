package booking

import (
	"context"
	"fmt"
	"time"

	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/identity"
)

// Store is the booking persistence consumed by the service. Reserve,
// CheckIn and Cancel are each a single serializable unit of work against the
// shared session/booking state; a rejection leaves nothing behind.
type Store interface {
	Reserve(ctx context.Context, sessionID, userID string, now time.Time) (*Booking, error)
	CheckIn(ctx context.Context, bookingID, operatorUID string, now time.Time) (*Booking, *attendance.Record, error)
	Cancel(ctx context.Context, bookingID string, actor identity.Actor, now time.Time) (*Booking, error)
	Get(ctx context.Context, bookingID string) (*Booking, error)
	CountActive(ctx context.Context, sessionID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Booking, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Book reserves a seat in the session for the calling member.
func (s *Service) Book(ctx context.Context, actor identity.Actor, sessionID string) (*Booking, error) {
	if actor.UID == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrBadRequest)
	}

	return s.store.Reserve(ctx, sessionID, actor.UID, s.now().UTC())
}

// CheckIn confirms a booked member's attendance. Coach/admin only. The
// booking transition, attendance record and progress increment land
// together or not at all.
func (s *Service) CheckIn(ctx context.Context, actor identity.Actor, bookingID string) (*CheckInResult, error) {
	if !actor.Operator() {
		return nil, fmt.Errorf("%w: coach or admin capability required", ErrUnauthorized)
	}
	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}

	b, rec, err := s.store.CheckIn(ctx, bookingID, actor.UID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	return &CheckInResult{
		Booking: *b,
		Attendance: AttendanceSummary{
			ID:          rec.ID,
			ClassName:   rec.ClassName,
			CheckInTime: rec.CheckInTime,
			Note:        rec.Note,
		},
	}, nil
}

// Cancel releases a booked seat. Allowed for the owning member or an
// operator; ownership is verified against the stored booking inside the
// same unit of work as the transition.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, bookingID string) (*Booking, error) {
	if actor.UID == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}

	return s.store.Cancel(ctx, bookingID, actor, s.now().UTC())
}

// Get retrieves a booking visible to the caller.
func (s *Service) Get(ctx context.Context, actor identity.Actor, bookingID string) (*Booking, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}
	b, err := s.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UID && !actor.Operator() {
		return nil, fmt.Errorf("%w: not your booking", ErrUnauthorized)
	}
	return b, nil
}

// ListForUser returns the caller's own bookings.
func (s *Service) ListForUser(ctx context.Context, actor identity.Actor, limit int) ([]Booking, error) {
	if actor.UID == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	return s.store.ListByUser(ctx, actor.UID, limit)
}
