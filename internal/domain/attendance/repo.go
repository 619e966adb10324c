package attendance

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
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

// MaxListLimit bounds an explicitly paged listing.
const MaxListLimit = 2000

// ClampLimit normalizes a caller-supplied page size. Zero or negative means
// unbounded (no Limit clause).
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ListByUser returns a user's attendance history, most recent first.
// limit <= 0 returns the full history; streaks and totals are only correct
// when computed over every record, so analytics always asks for everything.
func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	q := r.col().
		Where("userId", "==", userID).
		OrderBy("checkInTime", firestore.Desc)
	if n := ClampLimit(limit); n > 0 {
		q = q.Limit(n)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}

		var rec Record
		if err := doc.DataTo(&rec); err != nil {
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}

	return records, nil
}

// ListBySession returns the attendance recorded for one session.
func (r *Repo) ListBySession(ctx context.Context, sessionID string) ([]Record, error) {
	iter := r.col().Where("sessionId", "==", sessionID).Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}

		var rec Record
		if err := doc.DataTo(&rec); err != nil {
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}

	return records, nil
}
