package authctx

import (
	"context"

	"academy-manager/backend/internal/identity"
)

type ctxKey string

const actorKey ctxKey = "actor"

// WithActor attaches the authenticated caller to the request context.
func WithActor(ctx context.Context, a identity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the authenticated caller, if any.
func ActorFrom(ctx context.Context) (identity.Actor, bool) {
	v := ctx.Value(actorKey)
	a, ok := v.(identity.Actor)
	return a, ok && a.UID != ""
}
