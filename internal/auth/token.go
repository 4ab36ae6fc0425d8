package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuerName = "fbauth"

// Claims represents JWT claims of a first-party access token.
type Claims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a process-wide secret supplied at construction.
type JWTIssuer struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

var _ TokenIssuer = (*JWTIssuer)(nil)

// IssuerOption configures JWTIssuer behavior.
type IssuerOption func(*JWTIssuer)

// WithIssuerName overrides the iss claim.
func WithIssuerName(name string) IssuerOption {
	return func(i *JWTIssuer) {
		if name = strings.TrimSpace(name); name != "" {
			i.issuer = name
		}
	}
}

// WithIssuerClock overrides time source (useful for tests).
func WithIssuerClock(fn func() time.Time) IssuerOption {
	return func(i *JWTIssuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewJWTIssuer returns an issuer signing with secret.
func NewJWTIssuer(secret string, opts ...IssuerOption) (*JWTIssuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	i := &JWTIssuer{
		secret: []byte(secret),
		method: jwt.SigningMethodHS256,
		issuer: defaultIssuerName,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Generate signs key with an expiration floored to whole seconds.
func (i *JWTIssuer) Generate(_ context.Context, key string, expiration time.Duration) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyTokenKey
	}
	seconds := expiresInSeconds(expiration)
	if seconds <= 0 {
		return "", ErrInvalidExpiration
	}
	now := i.now().UTC()
	claims := Claims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(seconds) * time.Second)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded key.
func (i *JWTIssuer) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Key) == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, ErrEmptyTokenKey)
	}
	return claims.Key, nil
}

// expiresInSeconds floors d to whole seconds, the unit of the exp claim.
func expiresInSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
