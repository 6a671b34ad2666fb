package authflowrepo

import "time"

// AuthFlowState correlates a login attempt across the provider redirect
// round trip. Keyed by the state nonce; discarded once the callback is
// handled or the TTL elapses.
type AuthFlowState struct {
	CodeVerifier string
	Nonce        string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Get(state string) (*AuthFlowState, error)
	// Take retrieves and deletes the state in a single step so concurrent
	// callbacks presenting the same state cannot both succeed.
	Take(state string) (*AuthFlowState, error)
	Delete(state string) error
}
