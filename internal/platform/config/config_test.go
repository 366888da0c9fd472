package config

import (
	"testing"
	"time"
)

func TestLoadClientFromEnv_RequiresBackend(t *testing.T) {
	t.Setenv("CROWDSPARK_BACKEND", "")
	if _, err := LoadClientFromEnv(); err == nil {
		t.Fatalf("expected error when CROWDSPARK_BACKEND is empty")
	}
}

func TestLoadClientFromEnv_Defaults(t *testing.T) {
	t.Setenv("CROWDSPARK_BACKEND", "http://localhost:5000")
	cfg, err := LoadClientFromEnv()
	if err != nil {
		t.Fatalf("LoadClientFromEnv err=%v", err)
	}
	if cfg.BackendURL != "http://localhost:5000" || cfg.PushPath != "/push" || cfg.LogLevel != "info" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadDevBackendFromEnv(t *testing.T) {
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SEED_ADMIN_EMAIL", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")
	cfg, err := LoadDevBackendFromEnv()
	if err != nil {
		t.Fatalf("LoadDevBackendFromEnv err=%v", err)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.CookieName != "token" || cfg.Port != "5000" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadDevBackendFromEnv_SeedAdminPairing(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "root@example.com")
	t.Setenv("SEED_ADMIN_PASSWORD", "")
	if _, err := LoadDevBackendFromEnv(); err == nil {
		t.Fatalf("expected error for half-configured seed admin")
	}
}

func TestLoadClient_OverridesWin(t *testing.T) {
	t.Setenv("CROWDSPARK_BACKEND", "")
	t.Setenv("CROWDSPARK_LOG_LEVEL", "warn")
	cfg, err := LoadClient(map[string]string{"CROWDSPARK_BACKEND": "https://api.example.com", "CROWDSPARK_PUSH_PATH": ""})
	if err != nil {
		t.Fatalf("LoadClient err=%v", err)
	}
	if cfg.BackendURL != "https://api.example.com" || cfg.LogLevel != "warn" || cfg.PushPath != "/push" {
		t.Fatalf("cfg=%+v", cfg)
	}
}
