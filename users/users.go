package users

// User is the normalized identity derived from provider claims.
// Immutable once constructed; it is embedded into the session token payload
// and reconstructed from it on verification.
type User struct {
	ID     string   `json:"user_id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Groups []string `json:"groups,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}
