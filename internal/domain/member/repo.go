package member

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

// GetMember returns the member profile, or nil if none exists. A missing
// profile is not an error: the identity provider may know users this
// collection has not seen yet.
func (r *Repo) GetMember(ctx context.Context, uid string) (*Member, error) {
	doc, err := r.fs.Collection(Collection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	var m Member
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to decode member: %w", err)
	}
	m.UID = doc.Ref.ID
	return &m, nil
}

// GetProgress returns the member's progress snapshot, or nil before their
// first check-in.
func (r *Repo) GetProgress(ctx context.Context, uid string) (*ProgressSnapshot, error) {
	doc, err := r.fs.Collection(ProgressCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var p ProgressSnapshot
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	p.UserID = doc.Ref.ID
	return &p, nil
}
