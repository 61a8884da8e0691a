package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "BACKEND_URL", "BACKEND_TIMEOUT",
		"BACKEND_RATE_LIMIT", "REDIS_URL", "SESSION_TTL", "SHUTDOWN_GRACE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 300*time.Second {
		t.Errorf("BackendTimeout = %s, want 5m0s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want 24h0m0s", cfg.SessionTTL)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "https://checker.internal")
	t.Setenv("BACKEND_TIMEOUT", "45s")
	t.Setenv("BACKEND_RATE_LIMIT", "7")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BackendTimeout != 45*time.Second {
		t.Errorf("BackendTimeout = %s, want 45s", cfg.BackendTimeout)
	}
	if cfg.BackendRateLimit != 7 {
		t.Errorf("BackendRateLimit = %d, want 7", cfg.BackendRateLimit)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want fallback 24h", cfg.SessionTTL)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:             "8080",
		BackendURL:       "http://localhost:5000",
		BackendTimeout:   time.Minute,
		BackendRateLimit: 1,
		SessionTTL:       time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port not numeric", mutate: func(c *Config) { c.Port = "abc" }, wantErr: errInvalidPort},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: errInvalidPort},
		{name: "backend relative", mutate: func(c *Config) { c.BackendURL = "/process" }, wantErr: errInvalidBackendURL},
		{name: "backend ftp", mutate: func(c *Config) { c.BackendURL = "ftp://host" }, wantErr: errInvalidBackendURL},
		{name: "zero rate", mutate: func(c *Config) { c.BackendRateLimit = 0 }, wantErr: errNonPositive},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: errNonPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
