package session

import (
	"crypto/sha256"
	"io"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/entraauth/go-login-service/internal/config"
	"github.com/entraauth/go-login-service/internal/errors"
	"github.com/entraauth/go-login-service/internal/utils"
	"github.com/entraauth/go-login-service/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// hkdfInfo binds the derived signing key to its purpose so the same secret
// can't be reused for another key role later.
const hkdfInfo = "session-token-hs256"

// Service mints and verifies local session tokens. Tokens are HS256 JWTs
// carrying the normalized user record; the backend keeps no session store.
type Service struct {
	config config.SessionConfig
	key    []byte
}

// New creates a session token service. The HS256 signing key is derived
// from the configured secret via HKDF-SHA256.
func New(cfg config.SessionConfig) (*Service, error) {
	key, err := deriveSigningKey(cfg.GetSigningSecret())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive signing key")
	}
	return &Service{
		config: cfg,
		key:    key,
	}, nil
}

// Issue serializes the user record plus issued-at/expiry into a signed token.
func (s *Service) Issue(user *users.User) (string, error) {
	now := NowTimeFunc()

	claims := jwtlib.MapClaims{
		"iss":   s.config.GetTokenIssuer(),
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.config.GetTokenExpiry()).Unix(),
		"jti":   uuid.New().String(),
	}
	if len(user.Groups) > 0 {
		claims["groups"] = user.Groups
	}
	if len(user.Roles) > 0 {
		claims["roles"] = user.Roles
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign session token")
	}
	return signedToken, nil
}

// Verify parses and validates a session token and reconstructs the user
// record from its claims.
func (s *Service) Verify(rawToken string) (*users.User, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
	)

	token, err := parser.Parse(rawToken, s.verificationKey)
	if err != nil {
		return nil, mapTokenError(err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.ErrMalformedToken
	}

	return userFromClaims(claims), nil
}

// Refresh re-issues a token with extended expiry and identical user claims.
// The presented token must verify and be no more than the configured grace
// period past its expiry.
func (s *Service) Refresh(rawToken string) (string, error) {
	// Skip claims validation: signature is checked here, expiry is checked
	// manually against the grace window below.
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithoutClaimsValidation(),
	)

	token, err := parser.Parse(rawToken, s.verificationKey)
	if err != nil {
		return "", mapTokenError(err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", errors.ErrMalformedToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", errors.ErrMalformedToken
	}

	deadline := time.Unix(int64(exp), 0).Add(s.config.GetRefreshGrace())
	if NowTimeFunc().After(deadline) {
		return "", errors.ErrRefreshWindowExceeded
	}

	return s.Issue(userFromClaims(claims))
}

// TokenExpiry exposes the configured session token lifetime.
func (s *Service) TokenExpiry() time.Duration {
	return s.config.GetTokenExpiry()
}

func (s *Service) verificationKey(token *jwtlib.Token) (any, error) {
	return s.key, nil
}

func userFromClaims(claims jwtlib.MapClaims) *users.User {
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	user := &users.User{
		ID:    sub,
		Name:  name,
		Email: email,
	}
	if groups, ok := claims["groups"].([]any); ok {
		user.Groups = utils.ToStringSlice(groups)
	}
	if roles, ok := claims["roles"].([]any); ok {
		user.Roles = utils.ToStringSlice(roles)
	}
	return user
}

// mapTokenError converts golang-jwt parse errors to the service taxonomy.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return errors.ErrTokenExpired
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid), errors.Is(err, jwtlib.ErrSignatureInvalid):
		return errors.ErrInvalidSignature
	case errors.Is(err, jwtlib.ErrTokenMalformed):
		return errors.ErrMalformedToken
	default:
		return errors.ErrMalformedToken
	}
}

func deriveSigningKey(secret string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
