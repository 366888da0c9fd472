package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Client configures the CrowdSpark client.
//
// BackendURL is the single deployment-provided setting; every network call site derives its
// URL from it (REST endpoints, invoice links and the push channel).
type Client struct {
	BackendURL string `env:"CROWDSPARK_BACKEND,required,notEmpty"`
	PushPath   string `env:"CROWDSPARK_PUSH_PATH" envDefault:"/push"`
	LogLevel   string `env:"CROWDSPARK_LOG_LEVEL" envDefault:"info"`
}

// LoadClientFromEnv parses Client and fails fast when the backend URL is missing.
func LoadClientFromEnv() (Client, error) {
	return LoadClient(nil)
}

// LoadClient parses Client from the process environment with overrides (keyed by variable
// name) applied on top, so command-line flags and env share one validation path.
func LoadClient(overrides map[string]string) (Client, error) {
	environ := env.ToMap(os.Environ())
	for k, v := range overrides {
		if v != "" {
			environ[k] = v
		}
	}
	var cfg Client
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Client{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
