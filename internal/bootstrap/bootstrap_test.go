package bootstrap_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/internal/bootstrap"
	"github.com/internhub/internhub/internal/config"
	dbpkg "github.com/internhub/internhub/internal/db"
	sqlite "github.com/internhub/internhub/internal/repository/sqlite"
	"github.com/internhub/internhub/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		DatabasePath:         "ignored-in-tests.db",
		AccessTokenTTL:       30 * time.Minute,
		RefreshTokenTTL:      720 * time.Hour,
		DefaultAdminEmail:    "admin@internhub.local",
		DefaultAdminPassword: "ChangeMe123!",
		Flags: config.Flags{
			EnablePreflight:    true,
			EnableDBInitCheck:  true,
			AllowAutoDBInit:    false,
			EnableBootstrap:    true,
			CreateDefaultAdmin: true,
		},
	}
}

func testDB(t *testing.T) *dbpkg.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	d, err := dbpkg.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPreflight(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid config passes", mutate: func(c *config.Config) {}},
		{
			name:    "missing jwt secret",
			mutate:  func(c *config.Config) { c.JWTSecret = "" },
			wantErr: "jwt_secret",
		},
		{
			name:    "missing database path",
			mutate:  func(c *config.Config) { c.DatabasePath = "" },
			wantErr: "database_path",
		},
		{
			name:    "zero access ttl",
			mutate:  func(c *config.Config) { c.AccessTokenTTL = 0 },
			wantErr: "TTLs",
		},
		{
			name: "disabled flag skips all checks",
			mutate: func(c *config.Config) {
				c.Flags.EnablePreflight = false
				c.JWTSecret = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := bootstrap.Preflight(ctx, cfg, d)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("uninitialized without auto init fails", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()

		err := bootstrap.CheckInitialized(ctx, cfg, d)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("expected not initialized error, got %v", err)
		}
	})

	t.Run("auto init creates the schema", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()
		cfg.Flags.AllowAutoDBInit = true

		if err := bootstrap.CheckInitialized(ctx, cfg, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// second run sees the tables and is a no-op
		cfg.Flags.AllowAutoDBInit = false
		if err := bootstrap.CheckInitialized(ctx, cfg, d); err != nil {
			t.Fatalf("rerun failed: %v", err)
		}
	})

	t.Run("disabled flag skips the check", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()
		cfg.Flags.EnableDBInitCheck = false

		if err := bootstrap.CheckInitialized(ctx, cfg, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates schema and default admin", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()
		repo := sqlite.New(d, nil)

		if err := bootstrap.Bootstrap(ctx, cfg, d, repo, nil); err != nil {
			t.Fatalf("Bootstrap error: %v", err)
		}

		admin, err := repo.GetUserByEmail(ctx, cfg.DefaultAdminEmail)
		if err != nil || admin == nil {
			t.Fatalf("expected default admin, got %#v, %v", admin, err)
		}
		if admin.Role != models.RoleAdmin {
			t.Fatalf("expected admin role, got %q", admin.Role)
		}
		if !auth.CheckPassword(cfg.DefaultAdminPassword, admin.PasswordHash) {
			t.Fatalf("default admin password does not verify")
		}
	})

	t.Run("idempotent rerun", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()
		repo := sqlite.New(d, nil)

		if err := bootstrap.Bootstrap(ctx, cfg, d, repo, nil); err != nil {
			t.Fatalf("first run: %v", err)
		}
		if err := bootstrap.Bootstrap(ctx, cfg, d, repo, nil); err != nil {
			t.Fatalf("second run: %v", err)
		}

		count, err := repo.CountUsers(ctx)
		if err != nil || count != 1 {
			t.Fatalf("expected exactly one user after rerun, got %d, %v", count, err)
		}
	})

	t.Run("admin seeding can be disabled", func(t *testing.T) {
		d := testDB(t)
		cfg := testConfig()
		cfg.Flags.CreateDefaultAdmin = false
		repo := sqlite.New(d, nil)

		if err := bootstrap.Bootstrap(ctx, cfg, d, repo, nil); err != nil {
			t.Fatalf("Bootstrap error: %v", err)
		}
		count, err := repo.CountUsers(ctx)
		if err != nil || count != 0 {
			t.Fatalf("expected no users, got %d, %v", count, err)
		}
	})
}

func TestRun_FullSequence(t *testing.T) {
	d := testDB(t)
	cfg := testConfig()
	cfg.Flags.AllowAutoDBInit = true
	repo := sqlite.New(d, nil)

	if err := bootstrap.Run(context.Background(), cfg, d, repo, nil); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	admin, err := repo.GetUserByEmail(context.Background(), cfg.DefaultAdminEmail)
	if err != nil || admin == nil {
		t.Fatalf("expected default admin after full sequence, got %#v, %v", admin, err)
	}
}
