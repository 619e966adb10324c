package booking

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/domain/member"
	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/identity"
	"academy-manager/backend/internal/utils"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection(Collection)
}

// Reserve atomically checks that the session is bookable, that the user does
// not already hold a seat, and that a seat is free, then creates the booking.
// The transaction validates every read at commit, so two concurrent reserves
// cannot both pass the count check.
func (r *Repo) Reserve(ctx context.Context, sessionID, userID string, now time.Time) (*Booking, error) {
	var created Booking

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		sess, err := r.getSessionTx(tx, sessionID)
		if err != nil {
			return err
		}

		activeCount, alreadyActive, err := r.countActiveTx(tx, sessionID, userID)
		if err != nil {
			return err
		}

		if err := reserveCheck(sess, activeCount, alreadyActive); err != nil {
			return err
		}

		created = Booking{
			ID:        uuid.NewString(),
			UserID:    userID,
			SessionID: sessionID,
			Status:    StatusBooked,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(r.col().Doc(created.ID), created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CheckIn atomically flips the booking to checked_in, creates the attendance
// record, and bumps the member's progress snapshot by one. A failure at any
// step rolls back all three writes.
func (r *Repo) CheckIn(ctx context.Context, bookingID, operatorUID string, now time.Time) (*Booking, *attendance.Record, error) {
	var (
		updated Booking
		record  attendance.Record
	)

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		b, err := r.getBookingTx(tx, bookingID)
		if err != nil {
			return err
		}
		if err := checkInCheck(b); err != nil {
			return err
		}

		sess, err := r.getSessionTx(tx, b.SessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return fmt.Errorf("%w: session for booking is gone", ErrSessionNotFound)
		}

		progressRef := r.fs.Collection(member.ProgressCollection).Doc(b.UserID)
		progress, err := r.getProgressTx(tx, progressRef)
		if err != nil {
			return err
		}

		// All reads done; apply the compound effect.
		checkInAt := now
		updated = *b
		updated.Status = StatusCheckedIn
		updated.CheckInTime = &checkInAt
		updated.UpdatedAt = now
		if err := tx.Update(r.col().Doc(b.ID), []firestore.Update{
			{Path: "status", Value: string(StatusCheckedIn)},
			{Path: "checkInTime", Value: checkInAt},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		record = attendance.Record{
			ID:          uuid.NewString(),
			UserID:      b.UserID,
			SessionID:   b.SessionID,
			ClassName:   sess.ClassName,
			ClassDate:   sess.Date,
			CheckInTime: checkInAt,
			Note:        utils.TrimMax("checked in by "+operatorUID, attendance.MaxNoteLength),
			RecordedBy:  operatorUID,
			CreatedAt:   now,
		}
		if err := tx.Create(r.fs.Collection(attendance.Collection).Doc(record.ID), record); err != nil {
			return err
		}

		if progress == nil {
			return tx.Create(progressRef, member.NewProgressSnapshot(b.UserID, now))
		}
		return tx.Update(progressRef, []firestore.Update{
			{Path: "totalAttended", Value: progress.TotalAttended + 1},
			{Path: "lastAttendanceAt", Value: now},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return &updated, &record, nil
}

// Cancel atomically flips a booked booking to cancelled, freeing its seat
// for subsequent reserves.
func (r *Repo) Cancel(ctx context.Context, bookingID string, actor identity.Actor, now time.Time) (*Booking, error) {
	var updated Booking

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		b, err := r.getBookingTx(tx, bookingID)
		if err != nil {
			return err
		}
		if err := cancelCheck(b, actor); err != nil {
			return err
		}

		updated = *b
		updated.Status = StatusCancelled
		updated.UpdatedAt = now
		return tx.Update(r.col().Doc(b.ID), []firestore.Update{
			{Path: "status", Value: string(StatusCancelled)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Get retrieves a booking by ID.
func (r *Repo) Get(ctx context.Context, bookingID string) (*Booking, error) {
	doc, err := r.col().Doc(bookingID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w", ErrBookingNotFound)
	}

	var b Booking
	if err := doc.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	b.ID = doc.Ref.ID
	return &b, nil
}

// CountActive returns the number of seats currently held in a session.
func (r *Repo) CountActive(ctx context.Context, sessionID string) (int, error) {
	iter := r.activeQuery(sessionID).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count bookings: %w", err)
		}
		count++
	}
	return count, nil
}

// ListByUser returns a user's bookings, most recent first.
func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	iter := r.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var bookings []Booking
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}

		var b Booking
		if err := doc.DataTo(&b); err != nil {
			continue
		}
		b.ID = doc.Ref.ID
		bookings = append(bookings, b)
	}

	if bookings == nil {
		bookings = []Booking{}
	}
	return bookings, nil
}

func (r *Repo) activeQuery(sessionID string) firestore.Query {
	return r.col().
		Where("sessionId", "==", sessionID).
		Where("status", "in", ActiveStatuses)
}

func (r *Repo) getSessionTx(tx *firestore.Transaction, sessionID string) (*session.Session, error) {
	snap, err := tx.Get(r.fs.Collection(session.Collection).Doc(sessionID))
	if err != nil {
		if grpcstatus.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s session.Session
	if err := snap.DataTo(&s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.ID = snap.Ref.ID
	return &s, nil
}

func (r *Repo) getBookingTx(tx *firestore.Transaction, bookingID string) (*Booking, error) {
	snap, err := tx.Get(r.col().Doc(bookingID))
	if err != nil {
		if grpcstatus.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read booking: %w", err)
	}

	var b Booking
	if err := snap.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	b.ID = snap.Ref.ID
	return &b, nil
}

func (r *Repo) getProgressTx(tx *firestore.Transaction, ref *firestore.DocumentRef) (*member.ProgressSnapshot, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		if grpcstatus.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	var p member.ProgressSnapshot
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return &p, nil
}

// countActiveTx counts active bookings for a session inside a transaction
// and reports whether userID holds one of them.
func (r *Repo) countActiveTx(tx *firestore.Transaction, sessionID, userID string) (int, bool, error) {
	iter := tx.Documents(r.activeQuery(sessionID))
	defer iter.Stop()

	count := 0
	already := false
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to count bookings: %w", err)
		}

		count++
		var b Booking
		if err := doc.DataTo(&b); err != nil {
			continue
		}
		if b.UserID == userID {
			already = true
		}
	}
	return count, already, nil
}
