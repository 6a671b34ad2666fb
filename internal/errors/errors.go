package errors

import (
	"errors"
	"fmt"
)

// Common error types for the login service
var (
	// OAuth flow errors
	ErrInvalidState           = errors.New("invalid or expired state")
	ErrProviderExchangeFailed = errors.New("provider token exchange failed")
	ErrClaimsFetchFailed      = errors.New("claims fetch failed")
	ErrInvalidNonce           = errors.New("invalid nonce")

	// Session token errors
	ErrTokenExpired          = errors.New("token expired")
	ErrInvalidSignature      = errors.New("invalid token signature")
	ErrMalformedToken        = errors.New("malformed token")
	ErrRefreshWindowExceeded = errors.New("refresh window exceeded")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
