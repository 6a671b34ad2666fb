package config

import "strings"

type ProviderConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetTenantID() string
	GetRedirectURI() string
	GetScopes() []string
	GetAuthorityURL() string
	GetGraphURL() string
	GetFetchGroups() bool
	GetFetchRoles() bool
	GetVerifyIDToken() bool
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetClientID() string {
	return GetEnv("MICROSOFT_CLIENT_ID", "")
}

func (Provider) GetClientSecret() string {
	return GetEnv("MICROSOFT_CLIENT_SECRET", "")
}

// GetTenantID returns the Microsoft tenant segment of the authority URL.
// "organizations" allows any work or school account.
func (Provider) GetTenantID() string {
	return GetEnv("MICROSOFT_TENANT_ID", "organizations")
}

func (p Provider) GetRedirectURI() string {
	return GetEnv("MICROSOFT_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/auth/callback")
}

func (Provider) GetScopes() []string {
	scopes := GetEnv("MICROSOFT_SCOPES", "openid profile email User.Read")
	return strings.Fields(scopes)
}

// GetAuthorityURL returns the identity platform authority. Overridable so
// tests can point the client at a stub server.
func (p Provider) GetAuthorityURL() string {
	return GetEnv("MICROSOFT_AUTHORITY_URL", "https://login.microsoftonline.com/"+p.GetTenantID())
}

// GetGraphURL returns the Microsoft Graph base URL used for profile and
// group/role claim lookups.
func (Provider) GetGraphURL() string {
	return GetEnv("MICROSOFT_GRAPH_URL", "https://graph.microsoft.com/v1.0")
}

func (Provider) GetFetchGroups() bool {
	return GetEnv("FETCH_GROUPS", "false") == "true"
}

func (Provider) GetFetchRoles() bool {
	return GetEnv("FETCH_ROLES", "false") == "true"
}

// GetVerifyIDToken enables OIDC ID token verification on the callback.
// Requires live discovery against the authority, so it is off by default.
func (Provider) GetVerifyIDToken() bool {
	return GetEnv("VERIFY_ID_TOKEN", "false") == "true"
}
