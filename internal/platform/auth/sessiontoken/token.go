package sessiontoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager issues and verifies the HS256 session tokens carried in the session cookie.
type Manager struct {
	cfg   config.SessionTokenConfig
	clock Clock
}

func New(cfg config.SessionTokenConfig) *Manager {
	return NewWithClock(cfg, nil)
}

func NewWithClock(cfg config.SessionTokenConfig, clock Clock) *Manager {
	if clock == nil {
		clock = realClock{}
	}
	return &Manager{cfg: cfg, clock: clock}
}

// Issue mints a token for id and returns it with its expiry.
func (m *Manager) Issue(id domain.UserID) (string, time.Time, error) {
	if strings.TrimSpace(string(id)) == "" {
		return "", time.Time{}, fmt.Errorf("issue session token: empty user id")
	}
	now := m.clock.Now().UTC()
	exp := now.Add(m.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, issuer and validity window, and returns the user id from `sub`.
func (m *Manager) Verify(token string) (domain.UserID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", ErrUnauthorized
	}
	if err := m.validateClaims(claims); err != nil {
		return "", ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", ErrUnauthorized
	}
	return domain.UserID(claims.Subject), nil
}

func (m *Manager) validateClaims(c jwt.RegisteredClaims) error {
	now := m.clock.Now()
	skew := m.cfg.ClockSkew

	if c.Issuer != m.cfg.Issuer {
		return fmt.Errorf("iss mismatch")
	}
	if c.ExpiresAt == nil {
		return fmt.Errorf("missing exp")
	}
	if now.After(c.ExpiresAt.Time.Add(skew)) {
		return fmt.Errorf("token expired")
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time.Add(-skew)) {
		return fmt.Errorf("token not yet valid")
	}
	return nil
}
