package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"academy-manager/backend/internal/authctx"
	"academy-manager/backend/internal/identity"
)

// WithAuth verifies the Firebase ID token and places the caller, with the
// role capability read from custom claims, on the request context.
func WithAuth(authClient *auth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				http.Error(w, "missing Authorization: Bearer <token>", http.StatusUnauthorized)
				return
			}
			idToken := strings.TrimSpace(h[len("Bearer "):])

			tok, err := authClient.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			actor := identity.Actor{
				UID:  tok.UID,
				Role: identity.RoleFromClaims(tok.Claims),
			}
			if v, ok := tok.Claims["email"].(string); ok {
				actor.Email = v
			}

			next.ServeHTTP(w, r.WithContext(authctx.WithActor(r.Context(), actor)))
		})
	}
}
