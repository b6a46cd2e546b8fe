package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be development, got %q", cfg.App.Env)
	}
	if cfg.Portal.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected base URL %q", cfg.Portal.BaseURL)
	}
	if cfg.Portal.RevalidateInterval != 30*time.Second {
		t.Fatalf("expected 30s revalidate interval, got %v", cfg.Portal.RevalidateInterval)
	}
	if cfg.Portal.ExpirySoonThreshold != 5*time.Minute {
		t.Fatalf("expected 5m expiry threshold, got %v", cfg.Portal.ExpirySoonThreshold)
	}
	if cfg.JWT.AccessTokenTTL() != time.Hour {
		t.Fatalf("expected 1h access token ttl, got %v", cfg.JWT.AccessTokenTTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAPIBaseURL, "https://parking.example.com/api")
	t.Setenv(EnvSimPort, "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected production env, got %q", cfg.App.Env)
	}
	if cfg.Portal.BaseURL != "https://parking.example.com/api" {
		t.Fatalf("unexpected base URL %q", cfg.Portal.BaseURL)
	}
	if cfg.Sim.Port != "9090" {
		t.Fatalf("unexpected sim port %q", cfg.Sim.Port)
	}
}

func TestAccessTokenTTLNonPositive(t *testing.T) {
	cfg := JWTConfig{ExpirationMinutes: 0}
	if ttl := cfg.AccessTokenTTL(); ttl != 0 {
		t.Fatalf("expected zero ttl, got %v", ttl)
	}
}
