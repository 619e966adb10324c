package session

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
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

// CreateIfAbsent stores the session unless one already exists for the same
// (template, date) pair. The deterministic document ID makes the duplicate
// create fail with AlreadyExists, which is treated as success: the existing
// row is re-read and returned with created=false.
func (r *Repo) CreateIfAbsent(ctx context.Context, s Session) (*Session, bool, error) {
	ref := r.col().Doc(DocID(s.TemplateID, s.Date))
	s.ID = ref.ID

	_, err := ref.Create(ctx, s)
	if err == nil {
		return &s, true, nil
	}
	if status.Code(err) == codes.AlreadyExists {
		existing, gerr := r.Get(ctx, ref.ID)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	return nil, false, fmt.Errorf("failed to create session: %w", err)
}

// Get retrieves a session by ID
func (r *Repo) Get(ctx context.Context, sessionID string) (*Session, error) {
	doc, err := r.col().Doc(sessionID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: session not found", ErrNotFound)
	}

	var s Session
	if err := doc.DataTo(&s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.ID = doc.Ref.ID
	return &s, nil
}

// List lists sessions matching the filter, ordered by date then start time.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Session, error) {
	q := r.col().Query

	if f.TemplateID != "" {
		q = q.Where("templateId", "==", f.TemplateID)
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("date", ">=", *f.From)
	}
	if f.To != nil {
		q = q.Where("date", "<=", *f.To)
	}

	q = q.OrderBy("date", firestore.Asc).OrderBy("startTime", firestore.Asc)

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if f.Page > 1 {
		q = q.Offset((f.Page - 1) * limit)
	}
	q = q.Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var sessions []Session
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}

		var s Session
		if err := doc.DataTo(&s); err != nil {
			continue
		}
		s.ID = doc.Ref.ID
		sessions = append(sessions, s)
	}

	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// UpdateStatus sets the session's lifecycle status.
func (r *Repo) UpdateStatus(ctx context.Context, sessionID string, st Status, now time.Time) (*Session, error) {
	ref := r.col().Doc(sessionID)
	_, err := ref.Set(ctx, map[string]interface{}{
		"status":    string(st),
		"updatedAt": now,
	}, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	return r.Get(ctx, sessionID)
}
