package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/entraauth/go-login-service/internal/errors"
	"github.com/entraauth/go-login-service/internal/metrics"
)

// CallbackHandler receives the provider redirect, validates state, exchanges
// the authorization code, and hands the browser a session token via the
// frontend success URL. Failures redirect to the frontend error page with a
// coarse reason code only - never raw provider error payloads.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		// Check for authorization errors from the provider
		if errorParam != "" {
			log.Warn().
				Str("error", errorParam).
				Str("error_description", r.FormValue("error_description")).
				Msg("provider returned authorization error")
			s.failLogin(w, r, "provider_error")
			return
		}

		if code == "" || state == "" {
			s.failLogin(w, r, "invalid_request")
			return
		}

		user, err := s.provider.CompleteLogin(r.Context(), code, state)
		if err != nil {
			log.Err(err).Msg("login callback failed")
			s.failLogin(w, r, loginFailureReason(err))
			return
		}

		token, err := s.sessions.Issue(user)
		if err != nil {
			log.Err(err).Str("user_id", user.ID).Msg("failed to issue session token")
			s.failLogin(w, r, "internal_error")
			return
		}

		metrics.LoginsCompleted.Inc()

		successURL := s.config.GetFrontendURL() + "/auth/success?token=" + url.QueryEscape(token)
		http.Redirect(w, r, successURL, http.StatusSeeOther)
	}
}

// failLogin records the failure and sends the browser to the frontend
// error state.
func (s *Server) failLogin(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.LoginsFailed.WithLabelValues(reason).Inc()
	errorURL := s.config.GetFrontendURL() + "/auth/error?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, errorURL, http.StatusSeeOther)
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, errors.ErrInvalidNonce):
		return "invalid_nonce"
	case errors.Is(err, errors.ErrProviderExchangeFailed):
		return "provider_exchange_failed"
	default:
		return "internal_error"
	}
}
