package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/entraauth/go-login-service/internal/metrics"
)

// LoginResponse carries the provider authorization URL for the frontend to
// redirect the browser to.
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
}

// LoginHandler initiates the OAuth flow: generates PKCE state and returns
// the provider authorization URL.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := s.provider.BeginLogin(r.Context())
		if err != nil {
			log.Err(err).Msg("failed to initiate login")
			writeJSONError(w, "server_error", "Failed to initiate login", http.StatusInternalServerError)
			return
		}

		metrics.LoginsStarted.Inc()

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(LoginResponse{AuthURL: authURL})
	}
}
