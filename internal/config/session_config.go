package config

import (
	"time"
)

type SessionConfig interface {
	GetSigningSecret() string
	GetTokenIssuer() string
	GetTokenExpiry() time.Duration
	GetRefreshGrace() time.Duration
	GetAuthStateTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSigningSecret() string {
	return GetEnv("JWT_SECRET", "dev-secret-key")
}

func (e Session) GetTokenIssuer() string {
	return GetEnv("JWT_ISSUER", EnvVars{}.GetBaseURL())
}

func (Session) GetTokenExpiry() time.Duration {
	return getDurationEnv("SESSION_TOKEN_EXPIRY", 24*time.Hour)
}

// GetRefreshGrace is how long past expiry a token is still accepted
// by the refresh endpoint.
func (Session) GetRefreshGrace() time.Duration {
	return getDurationEnv("SESSION_REFRESH_GRACE", 5*time.Minute)
}

// GetAuthStateTTL bounds how long an abandoned login attempt's PKCE
// state is retained.
func (Session) GetAuthStateTTL() time.Duration {
	return getDurationEnv("AUTH_STATE_TTL", 15*time.Minute)
}

func getDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
