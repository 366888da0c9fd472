package config

import (
	"fmt"
	"time"
)

// SessionTokenConfig configures the dev backend's signed session cookie.
//
// The token is an HS256 JWT carried in an HttpOnly cookie; the client never reads it.
type SessionTokenConfig struct {
	Secret     string        `env:"SESSION_SECRET" envDefault:"dev-session-secret-change-me"`
	Issuer     string        `env:"SESSION_ISSUER" envDefault:"crowdspark-dev"`
	CookieName string        `env:"SESSION_COOKIE" envDefault:"token"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ClockSkew  time.Duration `env:"SESSION_CLOCK_SKEW" envDefault:"30s"`
}

// DevBackend configures the local stand-in backend.
type DevBackend struct {
	Port          string `env:"PORT" envDefault:"5000"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	PushPath      string `env:"PUSH_PATH" envDefault:"/push"`
	PaymentSecret string `env:"PAYMENT_SECRET" envDefault:"dev-payment-secret"`
	Currency      string `env:"PAYMENT_CURRENCY" envDefault:"INR"`
	// PublicURL prefixes upload links; empty derives it from each request's Host.
	PublicURL string `env:"PUBLIC_URL"`
	// AllowedOrigin is echoed in CORS headers so a browser front end can share the cookie.
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`
	// SeedAdminEmail creates an admin account at startup when set.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	Session SessionTokenConfig
}

func LoadDevBackendFromEnv() (DevBackend, error) {
	var cfg DevBackend
	if err := ParseEnv(&cfg); err != nil {
		return DevBackend{}, err
	}
	if len(cfg.Session.Secret) < 16 {
		return DevBackend{}, fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	if cfg.Session.TTL <= 0 {
		return DevBackend{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if (cfg.SeedAdminEmail == "") != (cfg.SeedAdminPassword == "") {
		return DevBackend{}, fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}
