package authflowrepo

import (
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryRepo is a thread-safe TTL-bound auth flow state store. Entries for
// abandoned login attempts expire instead of accumulating.
type InMemoryRepo struct {
	mu sync.Mutex // serializes Take's get-then-delete pair
	c  *gocache.Cache
}

// NewInMemoryRepo creates an in-memory auth flow state repository where
// entries expire after ttl.
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		c: gocache.New(ttl, time.Minute),
	}
}

// Upsert stores or updates an auth flow state
func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	// Store a copy to prevent external modifications
	r.c.SetDefault(state, &AuthFlowState{
		CodeVerifier: authState.CodeVerifier,
		Nonce:        authState.Nonce,
		CreatedAt:    authState.CreatedAt,
	})

	return nil
}

// Get retrieves an auth flow state by state parameter
func (r *InMemoryRepo) Get(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	v, exists := r.c.Get(state)
	if !exists {
		return nil, errors.New("state not found")
	}

	authState, ok := v.(*AuthFlowState)
	if !ok {
		return nil, errors.New("state not found")
	}

	// Return a copy to prevent external modifications
	return &AuthFlowState{
		CodeVerifier: authState.CodeVerifier,
		Nonce:        authState.Nonce,
		CreatedAt:    authState.CreatedAt,
	}, nil
}

// Take retrieves an auth flow state and deletes it atomically, so exactly one
// concurrent caller can claim a given state.
func (r *InMemoryRepo) Take(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.c.Get(state)
	if !exists {
		return nil, errors.New("state not found")
	}
	r.c.Delete(state)

	authState, ok := v.(*AuthFlowState)
	if !ok {
		return nil, errors.New("state not found")
	}

	return &AuthFlowState{
		CodeVerifier: authState.CodeVerifier,
		Nonce:        authState.Nonce,
		CreatedAt:    authState.CreatedAt,
	}, nil
}

// Delete removes an auth flow state
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.c.Delete(state)
	return nil
}
