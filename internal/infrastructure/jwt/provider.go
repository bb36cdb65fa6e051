package jwtinfra

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetdesk-api/internal/config"
	"github.com/fleetdesk-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields.
type Claims struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Tokens are stateless: nothing is
// persisted per token and expiry is the only invalidation.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

// NewProvider builds a provider from the configured signing secret. When no
// secret is configured, a random one is generated for the process lifetime;
// restarting then invalidates all outstanding tokens, which is accepted
// operational behavior.
func NewProvider(cfg *config.Config) (*Provider, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		slog.Warn("JWT_SECRET not set, generated an ephemeral signing secret; tokens will not survive a restart")
	}
	return &Provider{secret: []byte(secret), ttl: cfg.TokenTTL}, nil
}

// NewProviderWithTTL builds a provider with an explicit secret and TTL.
func NewProviderWithTTL(secret string, ttl time.Duration) *Provider {
	return &Provider{secret: []byte(secret), ttl: ttl}
}

func (p *Provider) Sign(accountID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates a token, distinguishing expiry from every other
// failure so callers can report it precisely.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
