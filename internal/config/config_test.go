package config

import (
	"strings"
	"testing"
	"time"
)

// t.Setenv handles save/restore of the environment between tests.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-key-for-config-tests")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/movielog.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %s, want 15m", cfg.TokenTTL)
	}
	if cfg.RateLimitRPM != 120 || cfg.AuthRateLimitRPM != 10 {
		t.Errorf("rate limits = %d/%d, want 120/10", cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://movies.example.com,https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://movies.example.com" {
		t.Errorf("CORSOrigins = %v, want two parsed origins", cfg.CORSOrigins)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with no JWT_SECRET succeeded, want error")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "tooshort")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with short JWT_SECRET succeeded, want error")
	}
	if !strings.Contains(err.Error(), "16 characters") {
		t.Errorf("error = %v, want mention of minimum length", err)
	}
}

func TestLoad_BadPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with out-of-range PORT succeeded, want error")
	}
}
