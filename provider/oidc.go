package provider

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/entraauth/go-login-service/internal/config"
	"github.com/entraauth/go-login-service/internal/errors"
)

// newIDTokenVerifier discovers the tenant's OIDC configuration and returns a
// verifier for ID tokens issued to this client. The v2.0 issuer lives under
// the authority URL.
func newIDTokenVerifier(ctx context.Context, cfg config.ProviderConfig) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetAuthorityURL()+"/v2.0")
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return provider.Verifier(&oidc.Config{ClientID: cfg.GetClientID()}), nil
}

// verifyIDToken checks the ID token's signature and claims and validates the
// nonce against the one issued at login initiation.
func (c *Client) verifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) error {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return fmt.Errorf("%w: no ID token in response", errors.ErrProviderExchangeFailed)
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return fmt.Errorf("%w: ID token verification failed: %v", errors.ErrProviderExchangeFailed, err)
	}

	var claims struct {
		Nonce string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return fmt.Errorf("%w: failed to extract claims: %v", errors.ErrProviderExchangeFailed, err)
	}

	if claims.Nonce != nonce {
		return errors.ErrInvalidNonce
	}
	return nil
}
