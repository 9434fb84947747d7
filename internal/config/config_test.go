package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("jwt secret is required", func(t *testing.T) {
		t.Setenv("HISAB_AUTH_JWTSECRET", "")
		if _, err := Load(); err == nil {
			t.Error("expected error for missing jwt secret")
		}
	})

	t.Run("defaults apply without a config file", func(t *testing.T) {
		t.Setenv("HISAB_AUTH_JWTSECRET", "test-secret")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
		}
		if cfg.Database.Path != "./data/hisab.db" {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.Auth.TokenTTL != 24*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("HISAB_AUTH_JWTSECRET", "test-secret")
		t.Setenv("HISAB_SERVER_PORT", "9090")
		t.Setenv("HISAB_AUTH_TOKENTTL", "1h")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
		}
		if cfg.Auth.TokenTTL != time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
		}
	})
}
