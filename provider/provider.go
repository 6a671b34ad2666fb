// Package provider implements the OAuth2 authorization-code-with-PKCE flow
// against the Microsoft identity platform, normalizing provider claims into
// a local user record.
package provider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/entraauth/go-login-service/internal/config"
	"github.com/entraauth/go-login-service/internal/errors"
	"github.com/entraauth/go-login-service/server/authflowrepo"
	"github.com/entraauth/go-login-service/users"
)

// Client drives the login flow against the configured Microsoft tenant.
type Client struct {
	config   config.ProviderConfig
	oauth    *oauth2.Config
	states   authflowrepo.Repo
	graph    *graphClient
	verifier *oidc.IDTokenVerifier
}

// New creates a provider client. ID token verification is only wired up when
// enabled in config, since it requires live OIDC discovery on the authority.
func New(ctx context.Context, cfg config.ProviderConfig, states authflowrepo.Repo) (*Client, error) {
	authority := cfg.GetAuthorityURL()

	c := &Client{
		config: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			RedirectURL:  cfg.GetRedirectURI(),
			Scopes:       cfg.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  authority + "/oauth2/v2.0/authorize",
				TokenURL: authority + "/oauth2/v2.0/token",
			},
		},
		states: states,
		graph:  newGraphClient(cfg.GetGraphURL()),
	}

	if cfg.GetVerifyIDToken() {
		verifier, err := newIDTokenVerifier(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise ID token verifier: %w", err)
		}
		c.verifier = verifier
	}

	return c, nil
}

// BeginLogin generates a PKCE verifier/challenge pair and a state nonce,
// stores the flow state keyed by state, and returns the provider
// authorization URL for the caller to redirect to.
func (c *Client) BeginLogin(ctx context.Context) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state := generateRandomString(32)
	nonce := generateRandomString(16)

	err := c.states.Upsert(state, &authflowrepo.AuthFlowState{
		CodeVerifier: verifier,
		Nonce:        nonce,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to store auth flow state")
	}

	authURL := c.oauth.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("nonce", nonce),
	)
	return authURL, nil
}

// CompleteLogin validates the state, exchanges the authorization code for
// provider tokens, and builds the normalized user record. Group/role claim
// fetch failures are non-fatal: the user logs in with those claims absent.
func (c *Client) CompleteLogin(ctx context.Context, code, state string) (*users.User, error) {
	// State is single use: taken and deleted atomically
	authState, err := c.states.Take(state)
	if err != nil || authState == nil {
		return nil, errors.ErrInvalidState
	}

	token, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(authState.CodeVerifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrProviderExchangeFailed, err)
	}

	if c.verifier != nil {
		if err := c.verifyIDToken(ctx, token, authState.Nonce); err != nil {
			return nil, err
		}
	}

	profile, err := c.graph.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user info: %v", errors.ErrProviderExchangeFailed, err)
	}

	user := &users.User{
		ID:    profile.ID,
		Name:  profile.DisplayName,
		Email: profile.EmailAddress(),
	}

	if c.config.GetFetchGroups() || c.config.GetFetchRoles() {
		groups, roles, err := c.graph.Memberships(ctx, token.AccessToken)
		if err != nil {
			log.Warn().Err(fmt.Errorf("%w: %v", errors.ErrClaimsFetchFailed, err)).
				Str("user_id", user.ID).
				Msg("continuing login without group/role claims")
		} else {
			if c.config.GetFetchGroups() {
				user.Groups = groups
			}
			if c.config.GetFetchRoles() {
				user.Roles = roles
			}
		}
	}

	return user, nil
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
