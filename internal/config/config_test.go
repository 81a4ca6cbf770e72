package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/internhub/internhub/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m access TTL, got %v", cfg.AccessTokenTTL)
	}
	if !cfg.Flags.StatelessStrict {
		t.Fatalf("expected stateless_strict to default true")
	}
	if cfg.Flags.AllowRefreshStore {
		t.Fatalf("expected allow_refresh_store to default false")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected default CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HUB_ADDR", ":9999")
	t.Setenv("HUB_STATELESS_STRICT", "false")
	t.Setenv("HUB_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Fatalf("expected env addr, got %q", cfg.Addr)
	}
	if cfg.Flags.StatelessStrict {
		t.Fatalf("expected stateless_strict false from env")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`addr: ":7070"
jwt_secret: "filesecret"
flags:
  stateless_strict: false
  allow_refresh_store: true
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Addr != ":7070" {
		t.Fatalf("expected addr from file, got %q", cfg.Addr)
	}
	if cfg.JWTSecret != "filesecret" {
		t.Fatalf("expected jwt secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.Flags.StatelessStrict || !cfg.Flags.AllowRefreshStore {
		t.Fatalf("unexpected flags: %+v", cfg.Flags)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := config.LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
