package server

import (
	"context"
	"net/http"

	"github.com/entraauth/go-login-service/internal/errors"
	"github.com/entraauth/go-login-service/internal/metrics"
	"github.com/entraauth/go-login-service/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated user record
	ContextKeyUser ContextKey = "user"
)

// RequireAuth is middleware that validates a Bearer session token and injects
// the verified user record into the request context. Verification failures
// return 401 and are never retried server-side.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, "unauthorized", "Missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}

			user, err := s.sessions.Verify(token)
			if err != nil {
				metrics.TokenRejections.WithLabelValues(rejectionReason(err)).Inc()
				writeJSONError(w, "unauthorized", "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// userFromContext retrieves the authenticated user injected by RequireAuth
func userFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*users.User)
	return user, ok
}

// rejectionReason maps a verification error to a metrics label
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrTokenExpired):
		return "expired"
	case errors.Is(err, errors.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, errors.ErrRefreshWindowExceeded):
		return "refresh_window_exceeded"
	default:
		return "malformed"
	}
}
