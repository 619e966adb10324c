package template

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

var ErrNotFound = errors.New("not found")

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection(Collection)
}

// Get retrieves a template by ID
func (r *Repo) Get(ctx context.Context, templateID string) (*ClassTemplate, error) {
	doc, err := r.col().Doc(templateID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: template not found", ErrNotFound)
	}

	var t ClassTemplate
	if err := doc.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	t.ID = doc.Ref.ID
	return &t, nil
}

// ListActive lists all active templates.
func (r *Repo) ListActive(ctx context.Context) ([]ClassTemplate, error) {
	iter := r.col().Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var templates []ClassTemplate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}

		var t ClassTemplate
		if err := doc.DataTo(&t); err != nil {
			continue
		}
		t.ID = doc.Ref.ID
		templates = append(templates, t)
	}

	if templates == nil {
		templates = []ClassTemplate{}
	}
	return templates, nil
}
