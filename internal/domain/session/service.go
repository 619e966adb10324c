package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"academy-manager/backend/internal/dateutil"
	"academy-manager/backend/internal/domain/template"
	"academy-manager/backend/internal/identity"
)

// DefaultMaxWindowDays caps a generation window when no override is set.
const DefaultMaxWindowDays = 92

// Store is the session persistence consumed by the service. CreateIfAbsent
// returns the stored session and whether this call created it; a concurrent
// duplicate create surfaces as created=false, never as an error.
type Store interface {
	CreateIfAbsent(ctx context.Context, s Session) (*Session, bool, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	List(ctx context.Context, f ListFilter) ([]Session, error)
	UpdateStatus(ctx context.Context, sessionID string, st Status, now time.Time) (*Session, error)
}

// TemplateSource provides the read-only class templates owned by the
// class-management side.
type TemplateSource interface {
	ListActive(ctx context.Context) ([]template.ClassTemplate, error)
}

// SeatCounter reports the live active-booking count for a session.
type SeatCounter interface {
	CountActive(ctx context.Context, sessionID string) (int, error)
}

type Service struct {
	store         Store
	templates     TemplateSource
	seats         SeatCounter
	maxWindowDays int
	now           func() time.Time
}

func NewService(store Store, templates TemplateSource, seats SeatCounter) *Service {
	return &Service{
		store:         store,
		templates:     templates,
		seats:         seats,
		maxWindowDays: DefaultMaxWindowDays,
		now:           time.Now,
	}
}

// SetMaxWindowDays overrides the generation window cap.
func (s *Service) SetMaxWindowDays(days int) {
	if days > 0 {
		s.maxWindowDays = days
	}
}

// Generate materializes the sessions that should exist for every active
// recurring template inside the window, without duplicating any that already
// exist. Safe to call repeatedly or concurrently for the same window.
func (s *Service) Generate(ctx context.Context, actor identity.Actor, window dateutil.Window) (*GenerateResult, error) {
	if !actor.Operator() {
		return nil, fmt.Errorf("%w: coach or admin capability required", ErrUnauthorized)
	}

	window = window.Normalize()
	if !window.Valid() {
		return nil, fmt.Errorf("%w: window start must not be after end", ErrBadRequest)
	}
	if window.DayCount() > s.maxWindowDays {
		return nil, fmt.Errorf("%w: window exceeds %d days", ErrBadRequest, s.maxWindowDays)
	}

	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	now := s.now().UTC()
	created := 0
	for _, t := range templates {
		if !t.IsRecurring || !t.HasWeekday() {
			continue
		}
		weekday := time.Weekday(*t.DayOfWeek)
		for _, day := range window.Days() {
			if day.Weekday() != weekday {
				continue
			}
			_, wasCreated, err := s.store.CreateIfAbsent(ctx, FromTemplate(t, day, now))
			if err != nil {
				return nil, err
			}
			if wasCreated {
				created++
			}
		}
	}

	sessions, err := s.store.List(ctx, ListFilter{From: &window.Start, To: &window.End, Limit: MaxListLimit})
	if err != nil {
		return nil, err
	}

	return &GenerateResult{Sessions: sessions, Created: created}, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrBadRequest)
	}
	return s.store.Get(ctx, sessionID)
}

// List returns sessions matching the filter, each decorated with live seat
// accounting.
func (s *Service) List(ctx context.Context, f ListFilter) ([]WithUtilization, error) {
	sessions, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]WithUtilization, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.seats.CountActive(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, decorate(sess, count))
	}
	return out, nil
}

// UpdateStatus is the operator transition to completed/cancelled. The
// generator never changes a session's status itself.
func (s *Service) UpdateStatus(ctx context.Context, actor identity.Actor, sessionID string, st Status) (*Session, error) {
	if !actor.Operator() {
		return nil, fmt.Errorf("%w: coach or admin capability required", ErrUnauthorized)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrBadRequest)
	}
	if st != StatusCompleted && st != StatusCancelled {
		return nil, fmt.Errorf("%w: status must be completed or cancelled", ErrBadRequest)
	}

	existing, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: session is already %s", ErrConflict, existing.Status)
	}

	return s.store.UpdateStatus(ctx, sessionID, st, s.now().UTC())
}

func decorate(sess Session, count int) WithUtilization {
	spots := sess.MaxCapacity - count
	if spots < 0 {
		spots = 0
	}
	utilization := 0
	if sess.MaxCapacity > 0 {
		utilization = int(math.Round(float64(count) / float64(sess.MaxCapacity) * 100))
	}
	return WithUtilization{
		Session:        sess,
		BookedCount:    count,
		AvailableSpots: spots,
		Utilization:    utilization,
	}
}
