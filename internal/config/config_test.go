package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UNISMS_SECURITY_JWTSECRET", "test-secret")
	t.Setenv("UNISMS_WORKER_SIGNINGSECRET", "archive-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Security.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.Security.SessionTTL)
	}
	if cfg.HTTP.Port != 5000 {
		t.Fatalf("expected default port 5000, got %d", cfg.HTTP.Port)
	}
	if cfg.SMS.MaxConcurrency != 8 {
		t.Fatalf("expected max concurrency 8, got %d", cfg.SMS.MaxConcurrency)
	}
	if cfg.Admin.Email != "admin@univ.ci" {
		t.Fatalf("unexpected seed admin email %s", cfg.Admin.Email)
	}
	if cfg.Worker.Stream != "sms:archive" {
		t.Fatalf("unexpected archive stream %s", cfg.Worker.Stream)
	}
	if cfg.Worker.SigningSecret != "archive-secret" {
		t.Fatalf("unexpected archive signing secret %q", cfg.Worker.SigningSecret)
	}
	if cfg.Postgres.HealthCheckPeriod != 30*time.Second || !cfg.Postgres.AutoMigrate {
		t.Fatalf("unexpected postgres defaults: %+v", cfg.Postgres)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UNISMS_SECURITY_JWTSECRET", "test-secret")
	t.Setenv("UNISMS_WORKER_SIGNINGSECRET", "archive-secret")
	t.Setenv("UNISMS_SECURITY_SESSIONTTL", "2h")
	t.Setenv("UNISMS_SMS_APIKEY", "key-123")
	t.Setenv("UNISMS_SMS_MAXCONCURRENCY", "3")
	t.Setenv("UNISMS_HTTP_PORT", "18080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Security.JWTSecret != "test-secret" {
		t.Fatalf("expected jwt secret override, got %q", cfg.Security.JWTSecret)
	}
	if cfg.Security.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h session ttl, got %s", cfg.Security.SessionTTL)
	}
	if cfg.SMS.APIKey != "key-123" {
		t.Fatalf("expected api key override, got %q", cfg.SMS.APIKey)
	}
	if cfg.SMS.MaxConcurrency != 3 {
		t.Fatalf("expected max concurrency 3, got %d", cfg.SMS.MaxConcurrency)
	}
	if cfg.HTTP.Port != 18080 {
		t.Fatalf("expected port 18080, got %d", cfg.HTTP.Port)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("UNISMS_SECURITY_JWTSECRET", "")
	t.Setenv("UNISMS_WORKER_SIGNINGSECRET", "archive-secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing secret to error")
	}
}

func TestLoadRequiresSeparateArchiveSecret(t *testing.T) {
	t.Setenv("UNISMS_SECURITY_JWTSECRET", "test-secret")

	t.Setenv("UNISMS_WORKER_SIGNINGSECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing archive signing secret to error")
	}

	t.Setenv("UNISMS_WORKER_SIGNINGSECRET", "test-secret")
	if _, err := Load(); err == nil {
		t.Fatalf("expected reused session secret to error")
	}
}
