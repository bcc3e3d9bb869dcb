package authsvc

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// MinSecretLength is the minimum length in bytes of the token signing secret.
const MinSecretLength = 32

// DefaultTokenDuration is the lifetime of a session token.
const DefaultTokenDuration = 7 * 24 * time.Hour

type sessionTokenClaims struct {
	domain.SessionClaims
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed session tokens.
type TokenService struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService signing with secret.
// Returns ErrWeakSigningSecret if the secret is shorter than MinSecretLength bytes.
func NewTokenService(secret string, duration time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d",
			domain.ErrWeakSigningSecret, MinSecretLength, len(secret))
	}

	if duration <= 0 {
		duration = DefaultTokenDuration
	}

	svc := &TokenService{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Issue signs the claims together with issued-at and expiry timestamps.
func (s *TokenService) Issue(claims domain.SessionClaims) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionTokenClaims{
		SessionClaims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token's algorithm, signature and expiry.
// Any failure, including malformed input, reports ok=false.
func (s *TokenService) Verify(token string) (domain.SessionClaims, bool) {
	if token == "" {
		return domain.SessionClaims{}, false
	}

	var claims sessionTokenClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.SessionClaims.ID == "" {
		return domain.SessionClaims{}, false
	}

	return claims.SessionClaims, true
}
