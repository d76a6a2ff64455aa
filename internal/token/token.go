// Package token issues and verifies signed bearer tokens for API access.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/davrell/tasklist/internal/platform/errors"
)

// DefaultTTL is the token lifetime when none is configured.
const DefaultTTL = time.Hour

var (
	// ErrInvalid indicates a malformed token or one whose signature does not verify.
	ErrInvalid = apperrors.New(apperrors.CodeTokenInvalid, "token is not valid")
	// ErrExpired indicates a token past its expiry.
	ErrExpired = apperrors.New(apperrors.CodeTokenExpired, "token is expired")
)

// Service signs and verifies identity tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a token service. The secret is required configuration;
// ttl falls back to DefaultTTL and now to time.Now when zero.
func NewService(secret []byte, ttl time.Duration, now func() time.Time) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Service{secret: secret, ttl: ttl, now: now}, nil
}

// Issue produces a signed token embedding the user identifier with an
// absolute expiry one TTL from issuance.
func (s *Service) Issue(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}

	issuedAt := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks a token's signature and expiry and returns the embedded
// user identifier. Expiry is validated against the service clock so callers
// with injected clocks see deterministic behavior.
func (s *Service) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrInvalid
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeTokenInvalid, "token is not valid", err)
	}

	if claims.Subject == "" {
		return "", ErrInvalid
	}
	if claims.ExpiresAt == nil {
		return "", ErrInvalid
	}
	if !claims.ExpiresAt.Time.UTC().After(s.now().UTC()) {
		return "", ErrExpired
	}
	return claims.Subject, nil
}
