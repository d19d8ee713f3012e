package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/signora/eventwall/internal/model"
)

// TokenClass distinguishes access tokens from refresh tokens. The class is
// embedded in the token and checked on verification in addition to the
// per-class secret.
type TokenClass string

const (
	AccessToken  TokenClass = "access"
	RefreshToken TokenClass = "refresh"
)

// Token lifetimes are fixed.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, unexpected algorithm, expiry, wrong class or missing subject.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload: a snapshot of the principal plus the
// registered claims (sub, exp, iat, jti).
type Claims struct {
	User  model.Principal `json:"user"`
	Class TokenClass      `json:"typ"`
	jwt.RegisteredClaims
}

// SignedToken is a serialized JWT and the moment it expires.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 tokens. Each token class has its own
// secret.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewTokenIssuer builds an issuer from the two signing secrets.
func NewTokenIssuer(accessSecret, refreshSecret string) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests to mint tokens in the
// past.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *i
	cp.now = now
	return &cp
}

// IssueAccessToken signs a short-lived access token for p.
func (i *TokenIssuer) IssueAccessToken(p model.Principal) (SignedToken, error) {
	return i.issue(p, AccessToken)
}

// IssueRefreshToken signs a long-lived refresh token for p.
func (i *TokenIssuer) IssueRefreshToken(p model.Principal) (SignedToken, error) {
	return i.issue(p, RefreshToken)
}

func (i *TokenIssuer) issue(p model.Principal, class TokenClass) (SignedToken, error) {
	secret, ttl, err := i.params(class)
	if err != nil {
		return SignedToken{}, err
	}
	now := i.now()
	exp := now.Add(ttl)
	claims := Claims{
		User:  p,
		Class: class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return SignedToken{}, fmt.Errorf("sign %s token: %w", class, err)
	}
	return SignedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify parses raw with the secret bound to class. It never returns
// partially-validated claims: on any failure the claims are nil and the
// error wraps ErrInvalidToken.
func (i *TokenIssuer) Verify(raw string, class TokenClass) (*Claims, error) {
	secret, _, err := i.params(class)
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Class != class || claims.Subject == "" || claims.Subject != claims.User.ID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (i *TokenIssuer) params(class TokenClass) ([]byte, time.Duration, error) {
	switch class {
	case AccessToken:
		return i.accessSecret, AccessTokenTTL, nil
	case RefreshToken:
		return i.refreshSecret, RefreshTokenTTL, nil
	}
	return nil, 0, fmt.Errorf("%w: unknown token class %q", ErrInvalidToken, class)
}
