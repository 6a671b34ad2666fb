package server

import (
	"encoding/json"
	"net/http"
)

// UserHandler returns the normalized user record carried by the verified
// session token. Chained after RequireAuth.
func (s *Server) UserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			writeJSONError(w, "unauthorized", "No authenticated user", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(user)
	}
}
