package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entraauth/go-login-service/internal/config"
)

func TestAllowedOriginsDefaultsToFrontend(t *testing.T) {
	t.Setenv("FRONTEND_URL", "http://localhost:3003")
	t.Setenv("ALLOWED_ORIGINS", "")

	c := config.New()
	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://localhost:3003"))
	require.False(t, origins.IsAllowedOrigin("http://other.example.com"))
}

func TestAllowedOriginsParsesList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com")

	c := config.New()
	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("http://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("http://c.example.com"))
}

func TestPortNormalization(t *testing.T) {
	t.Setenv("PORT", "9000")
	require.Equal(t, ":9000", config.New().GetPort())

	t.Setenv("PORT", ":9000")
	require.Equal(t, ":9000", config.New().GetPort())
}

func TestSessionDurations(t *testing.T) {
	t.Setenv("SESSION_TOKEN_EXPIRY", "1h")
	t.Setenv("SESSION_REFRESH_GRACE", "not-a-duration")

	c := config.New()
	require.Equal(t, time.Hour, c.GetTokenExpiry())
	// Unparseable values fall back to the default
	require.Equal(t, 5*time.Minute, c.GetRefreshGrace())
	require.Equal(t, 15*time.Minute, c.GetAuthStateTTL())
}

func TestProviderDefaults(t *testing.T) {
	t.Setenv("MICROSOFT_TENANT_ID", "")
	t.Setenv("MICROSOFT_AUTHORITY_URL", "")
	t.Setenv("MICROSOFT_REDIRECT_URI", "")
	t.Setenv("BACKEND_URL", "http://localhost:8003")

	c := config.New()
	require.Equal(t, "organizations", c.GetTenantID())
	require.Equal(t, "https://login.microsoftonline.com/organizations", c.GetAuthorityURL())
	require.Equal(t, "http://localhost:8003/auth/callback", c.GetRedirectURI())
	require.Equal(t, []string{"openid", "profile", "email", "User.Read"}, c.GetScopes())
	require.False(t, c.GetFetchGroups())
	require.False(t, c.GetVerifyIDToken())
}
