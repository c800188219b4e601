package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("FLEET_DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when FLEET_DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLEET_DATABASE_URL", "postgres://localhost/fleet")
	t.Setenv("FLEET_HTTP_ADDR", "")
	t.Setenv("FLEET_STORE_TIMEOUT", "")
	t.Setenv("FLEET_S3_REGION", "")
	t.Setenv("FLEET_S3_PREFIX", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %v, want 5s", cfg.StoreTimeout)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q, want us-east-1", cfg.S3Region)
	}
	if cfg.S3Prefix != "fleet/images" {
		t.Errorf("S3Prefix = %q, want fleet/images", cfg.S3Prefix)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FLEET_DATABASE_URL", "postgres://localhost/fleet")
	t.Setenv("FLEET_HTTP_ADDR", ":9999")
	t.Setenv("FLEET_STORE_TIMEOUT", "250ms")
	t.Setenv("FLEET_AUTH_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.StoreTimeout != 250*time.Millisecond {
		t.Errorf("StoreTimeout = %v", cfg.StoreTimeout)
	}
	if cfg.AuthToken != "secret" {
		t.Errorf("AuthToken = %q", cfg.AuthToken)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("FLEET_DATABASE_URL", "postgres://localhost/fleet")
	t.Setenv("FLEET_STORE_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable FLEET_STORE_TIMEOUT")
	}
}
