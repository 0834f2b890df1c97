// Package token issues and validates signed bearer tokens.
//
// Tokens are compact JWTs signed with HMAC-SHA256. A token is valid only if
// its signature matches the configured secret, its issuer and audience match
// the configured values exactly, and the current time is before its expiry —
// with zero clock-skew tolerance. Validation is all-or-nothing and entirely
// stateless: no record of issued tokens is kept.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the identity assertions embedded in a token.
// Subject carries the username.
type Claims struct {
	gojwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Service issues and validates tokens. Issue and Validate are pure functions
// of (input, current time, static secret) and are safe for concurrent use.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService creates a token service from configuration.
func NewService(cfg *Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: *cfg, now: time.Now}, nil
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue builds and signs a token asserting the given identity.
// Expiry is now + the configured TTL, on a UTC clock.
func (s *Service) Issue(username, email string) (string, error) {
	now := s.now().UTC()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.cfg.Issuer,
			Audience:  gojwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TTL())),
		},
		Email: email,
	}

	t := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning its claims.
// Checks short-circuit in order: well-formedness, signature, issuer,
// audience, expiry. Any failure yields an error with the precise reason;
// callers map it to a generic unauthenticated response.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.cfg.Issuer),
		gojwt.WithAudience(s.cfg.Audience),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("token: invalid")
	}
	return claims, nil
}

// ValidatorFunc bridges the service to middleware that doesn't know about
// the concrete claims type.
func (s *Service) ValidatorFunc() func(string) (any, error) {
	return func(tokenString string) (any, error) {
		return s.Validate(tokenString)
	}
}

// keyFunc rejects any signing method other than the configured HMAC one
// before handing out the verification key.
func (s *Service) keyFunc(t *gojwt.Token) (interface{}, error) {
	if t.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", t.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
