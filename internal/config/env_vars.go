package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	backendURLVar  = "BACKEND_URL"
	frontendURLVar = "FRONTEND_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8003")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "MS Login Service")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the externally visible base URL for this backend
// (e.g. "https://auth.example.com"). Used to build the default redirect URI.
func (e EnvVars) GetBaseURL() string {
	return GetEnv(backendURLVar, fmt.Sprintf("http://localhost%s", e.GetPort()))
}

// GetFrontendURL returns the frontend base URL, used for post-login redirects
// and as the default allowed CORS origin.
func (EnvVars) GetFrontendURL() string {
	return GetEnv(frontendURLVar, "http://localhost:3003")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
