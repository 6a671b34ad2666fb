package server

import (
	"encoding/json"
	"net/http"

	"github.com/entraauth/go-login-service/internal/metrics"
)

// RefreshResponse carries a re-issued session token.
type RefreshResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// RefreshHandler re-issues a session token with extended expiry. The
// presented token may be expired up to the configured grace window, so this
// handler extracts the bearer token itself rather than chaining RequireAuth.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSONError(w, "unauthorized", "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		newToken, err := s.sessions.Refresh(token)
		if err != nil {
			metrics.TokenRejections.WithLabelValues(rejectionReason(err)).Inc()
			writeJSONError(w, "unauthorized", "Token refresh rejected", http.StatusUnauthorized)
			return
		}

		metrics.TokensRefreshed.Inc()

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(RefreshResponse{
			Token:     newToken,
			TokenType: "Bearer",
			ExpiresIn: int64(s.sessions.TokenExpiry().Seconds()),
		})
	}
}
