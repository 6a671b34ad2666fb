package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entraauth/go-login-service/internal/config"
	"github.com/entraauth/go-login-service/server"
	"github.com/entraauth/go-login-service/users"
)

const testFrontendURL = "http://localhost:3003"

// newStubProvider stands in for both the identity platform token endpoint
// and Microsoft Graph
func newStubProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("code") != "test-code" || r.FormValue("code_verifier") == "" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"graph-access-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer graph-access-token" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u1","displayName":"Ann","mail":"ann@x.com","userPrincipalName":"ann@corp.onmicrosoft.com"}`)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	sp := newStubProvider(t)
	t.Setenv("ENV", "test")
	t.Setenv("MICROSOFT_CLIENT_ID", "test-client-1")
	t.Setenv("MICROSOFT_CLIENT_SECRET", "test-secret-1")
	t.Setenv("MICROSOFT_AUTHORITY_URL", sp.URL)
	t.Setenv("MICROSOFT_GRAPH_URL", sp.URL)
	t.Setenv("JWT_SECRET", "test-signing-secret")
	t.Setenv("FRONTEND_URL", testFrontendURL)

	srv, err := server.New(config.New())
	require.NoError(t, err)
	return srv
}

func doRequest(srv *server.Server, method, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// login walks the full flow against the stub provider and returns the
// session token handed to the browser
func login(t *testing.T, srv *server.Server) string {
	t.Helper()

	rec := doRequest(srv, http.MethodGet, server.RouteAuthLogin, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp server.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loginResp))

	authURL, err := url.Parse(loginResp.AuthURL)
	require.NoError(t, err)
	state := authURL.Query().Get("state")
	require.NotEmpty(t, state)

	rec = doRequest(srv, http.MethodGet, server.RouteAuthCallback+"?code=test-code&state="+url.QueryEscape(state), "")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(location.String(), testFrontendURL+"/auth/success"),
		"unexpected redirect %q", location)

	token := location.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestLoginEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	token := login(t, srv)

	rec := doRequest(srv, http.MethodGet, server.RouteAuthUser, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var user users.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	require.Equal(t, users.User{ID: "u1", Name: "Ann", Email: "ann@x.com"}, user)
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteAuthCallback+"?code=test-code&state=never-issued", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, testFrontendURL+"/auth/error?error=invalid_state", rec.Header().Get("Location"))
}

func TestCallbackRedirectsProviderError(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteAuthCallback+"?error=access_denied&error_description=user+cancelled", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, testFrontendURL+"/auth/error?error=provider_error", rec.Header().Get("Location"))
}

func TestCallbackRequiresCodeAndState(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteAuthCallback, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, testFrontendURL+"/auth/error?error=invalid_request", rec.Header().Get("Location"))
}

func TestUserRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteAuthUser, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(srv, http.MethodGet, server.RouteAuthUser, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshReissuesToken(t *testing.T) {
	srv := newTestServer(t)

	token := login(t, srv)

	rec := doRequest(srv, http.MethodPost, server.RouteAuthRefresh, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshResp server.RefreshResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&refreshResp))
	require.NotEmpty(t, refreshResp.Token)
	require.Equal(t, "Bearer", refreshResp.TokenType)
	require.Greater(t, refreshResp.ExpiresIn, int64(0))

	// The re-issued token carries the same user record
	rec = doRequest(srv, http.MethodGet, server.RouteAuthUser, refreshResp.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var user users.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	require.Equal(t, "u1", user.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, server.RouteAuthRefresh, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteHealth, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "healthy", body["status"])
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthLogin, nil)
	req.Header.Set("Origin", testFrontendURL)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testFrontendURL, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCorsPreflightAllowsConfiguredOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, server.RouteAuthRefresh, nil)
	req.Header.Set("Origin", testFrontendURL)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testFrontendURL, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCorsPreflightUnknownOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, server.RouteAuthUser, nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCorsIgnoresUnknownOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthLogin, nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, server.RouteIndex, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/no-such-page", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
