package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/domain/member"
	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/identity"
	"academy-manager/backend/internal/utils"
)

// memStore mirrors the Firestore repo's transactional semantics in memory:
// each operation collects its inputs and applies the shared rule functions
// under one lock, so the invariants tested here are the same ones the
// transaction enforces.
type memStore struct {
	mu         sync.Mutex
	sessions   map[string]*session.Session
	bookings   map[string]*Booking
	attendance []attendance.Record
	progress   map[string]*member.ProgressSnapshot
}

func newMemStore(sessions ...*session.Session) *memStore {
	m := &memStore{
		sessions: map[string]*session.Session{},
		bookings: map[string]*Booking{},
		progress: map[string]*member.ProgressSnapshot{},
	}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *memStore) activeLocked(sessionID, userID string) (int, bool) {
	count := 0
	already := false
	for _, b := range m.bookings {
		if b.SessionID == sessionID && b.Active() {
			count++
			if b.UserID == userID {
				already = true
			}
		}
	}
	return count, already
}

func (m *memStore) Reserve(_ context.Context, sessionID, userID string, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.sessions[sessionID]
	count, already := m.activeLocked(sessionID, userID)
	if err := reserveCheck(sess, count, already); err != nil {
		return nil, err
	}

	b := &Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Status:    StatusBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.bookings[b.ID] = b
	c := *b
	return &c, nil
}

func (m *memStore) CheckIn(_ context.Context, bookingID, operatorUID string, now time.Time) (*Booking, *attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[bookingID]
	if err := checkInCheck(b); err != nil {
		return nil, nil, err
	}
	sess := m.sessions[b.SessionID]
	if sess == nil {
		return nil, nil, fmt.Errorf("%w: session for booking is gone", ErrSessionNotFound)
	}

	checkInAt := now
	b.Status = StatusCheckedIn
	b.CheckInTime = &checkInAt
	b.UpdatedAt = now

	rec := attendance.Record{
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
	m.attendance = append(m.attendance, rec)

	if p := m.progress[b.UserID]; p == nil {
		snap := member.NewProgressSnapshot(b.UserID, now)
		m.progress[b.UserID] = &snap
	} else {
		p.TotalAttended++
		p.LastAttendanceAt = now
		p.UpdatedAt = now
	}

	c := *b
	return &c, &rec, nil
}

func (m *memStore) Cancel(_ context.Context, bookingID string, actor identity.Actor, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[bookingID]
	if err := cancelCheck(b, actor); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now
	c := *b
	return &c, nil
}

func (m *memStore) Get(_ context.Context, bookingID string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w", ErrBookingNotFound)
	}
	c := *b
	return &c, nil
}

func (m *memStore) CountActive(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, _ := m.activeLocked(sessionID, "")
	return count, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string, _ int) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func scheduledSession(id string, capacity int) *session.Session {
	return &session.Session{
		ID:          id,
		TemplateID:  "tpl-1",
		ClassName:   "Fundamentals",
		Date:        time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		MaxCapacity: capacity,
		Status:      session.StatusScheduled,
	}
}

var (
	coach  = identity.Actor{UID: "coach-1", Role: identity.RoleCoach}
	alice  = identity.Actor{UID: "alice", Role: identity.RoleMember}
	bob    = identity.Actor{UID: "bob", Role: identity.RoleMember}
	nobody = identity.Actor{}
)

func TestBookAccepted(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, "alice", b.UserID)
	assert.Nil(t, b.CheckInTime)

	count, err := store.CountActive(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBookValidation(t *testing.T) {
	svc := NewService(newMemStore(scheduledSession("s1", 10)))

	_, err := svc.Book(context.Background(), nobody, "s1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Book(context.Background(), alice, "")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestBookRejectsMissingAndUnbookableSessions(t *testing.T) {
	done := scheduledSession("s2", 10)
	done.Status = session.StatusCompleted
	svc := NewService(newMemStore(done))

	_, err := svc.Book(context.Background(), alice, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Book(context.Background(), alice, "s2")
	assert.ErrorIs(t, err, ErrSessionNotBookable)
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	_, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), alice, "s1")
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	count, _ := store.CountActive(context.Background(), "s1")
	assert.Equal(t, 1, count)
}

func TestConcurrentBookingRespectsCapacity(t *testing.T) {
	const capacity = 10
	const callers = 25

	store := newMemStore(scheduledSession("s1", capacity))
	svc := NewService(store)

	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := identity.Actor{UID: fmt.Sprintf("user-%d", n), Role: identity.RoleMember}
			_, err := svc.Book(context.Background(), actor, "s1")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	accepted, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case IsErrConflict(err):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, capacity, accepted)
	assert.Equal(t, callers-capacity, full)

	count, _ := store.CountActive(context.Background(), "s1")
	assert.Equal(t, capacity, count)
}

func TestTwoCallersOneSeat(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 1))
	svc := NewService(store)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, actor := range []identity.Actor{alice, bob} {
		wg.Add(1)
		go func(a identity.Actor) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), a, "s1")
			errs <- err
		}(actor)
	}
	wg.Wait()
	close(errs)

	var got []error
	for err := range errs {
		got = append(got, err)
	}
	require.Len(t, got, 2)
	if got[0] == nil {
		assert.ErrorIs(t, got[1], ErrSessionFull)
	} else {
		assert.ErrorIs(t, got[0], ErrSessionFull)
		assert.NoError(t, got[1])
	}
}

func TestCheckInCompoundEffect(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	res, err := svc.CheckIn(context.Background(), coach, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, res.Booking.Status)
	require.NotNil(t, res.Booking.CheckInTime)
	assert.Equal(t, "Fundamentals", res.Attendance.ClassName)
	assert.Contains(t, res.Attendance.Note, "coach-1")

	require.Len(t, store.attendance, 1)
	p := store.progress["alice"]
	require.NotNil(t, p)
	assert.Equal(t, 1, p.TotalAttended)
	assert.Equal(t, member.DefaultBeltRank, p.BeltRank)
}

func TestCheckInExactlyOnce(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), coach, b.ID)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), coach, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// No second attendance record, no second increment.
	assert.Len(t, store.attendance, 1)
	assert.Equal(t, 1, store.progress["alice"].TotalAttended)
}

func TestCheckInIncrementsExistingProgress(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10), scheduledSession("s2", 10))
	svc := NewService(store)

	b1, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	b2, err := svc.Book(context.Background(), alice, "s2")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), coach, b1.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), coach, b2.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, store.progress["alice"].TotalAttended)
}

func TestCheckInRequiresOperator(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), alice, b.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, store.attendance)
}

func TestCheckInMissingBooking(t *testing.T) {
	svc := NewService(newMemStore(scheduledSession("s1", 10)))

	_, err := svc.CheckIn(context.Background(), coach, "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelFreesSeat(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 1))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	// Session is full for bob.
	_, err = svc.Book(context.Background(), bob, "s1")
	require.ErrorIs(t, err, ErrSessionFull)

	cancelled, err := svc.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// The freed seat is immediately bookable again.
	_, err = svc.Book(context.Background(), bob, "s1")
	assert.NoError(t, err)
}

func TestRebookAfterCancelCreatesFreshBooking(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	first, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), alice, first.ID)
	require.NoError(t, err)

	second, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The cancelled row stays cancelled.
	old, err := store.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, old.Status)
}

func TestCancelAuthorization(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), bob, b.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// An operator may cancel on the member's behalf.
	_, err = svc.Cancel(context.Background(), coach, b.ID)
	assert.NoError(t, err)
}

func TestCancelCheckedInBookingRejected(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), coach, b.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), alice, b.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestGetVisibility(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10))
	svc := NewService(store)

	b, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Get(context.Background(), bob, b.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Get(context.Background(), coach, b.ID)
	assert.NoError(t, err)
}

func TestListForUser(t *testing.T) {
	store := newMemStore(scheduledSession("s1", 10), scheduledSession("s2", 10))
	svc := NewService(store)

	_, err := svc.Book(context.Background(), alice, "s1")
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), alice, "s2")
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), bob, "s1")
	require.NoError(t, err)

	mine, err := svc.ListForUser(context.Background(), alice, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
