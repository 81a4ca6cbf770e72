// Package bootstrap runs the ordered startup checks: preflight, database
// initialization check, then bootstrap seeding. Each step is gated by a
// config flag and safe to re-run.
package bootstrap

import (
	"context"
	"fmt"

	"log/slog"

	dbfs "github.com/internhub/internhub/db"
	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/internal/config"
	"github.com/internhub/internhub/internal/db"
	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

// Preflight verifies required settings are present and the database answers.
func Preflight(ctx context.Context, cfg *config.Config, d *db.DB) error {
	if !cfg.Flags.EnablePreflight {
		return nil
	}

	if cfg.JWTSecret == "" {
		return fmt.Errorf("preflight: jwt_secret is required")
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("preflight: database_path is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("preflight: token TTLs must be positive")
	}

	var one int
	if err := d.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("preflight: database not reachable: %w", err)
	}

	return nil
}

// CheckInitialized verifies the core tables exist. When they don't, the
// schema is created in place if auto-init is allowed, otherwise startup
// fails so an operator can run scripts/db_init.
func CheckInitialized(ctx context.Context, cfg *config.Config, d *db.DB) error {
	if !cfg.Flags.EnableDBInitCheck {
		return nil
	}

	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'internships', 'applications')`)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("db init check: %w", err)
	}
	if count == 3 {
		return nil
	}

	if !cfg.Flags.AllowAutoDBInit {
		return fmt.Errorf("database not initialized: run scripts/db_init or enable allow_auto_db_init")
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		return fmt.Errorf("auto db init: %w", err)
	}

	return nil
}

// Bootstrap applies migrations and seeds the default admin account when
// configured and absent.
func Bootstrap(ctx context.Context, cfg *config.Config, d *db.DB, users repository.UserRepo, logger *slog.Logger) error {
	if !cfg.Flags.EnableBootstrap {
		return nil
	}

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		return fmt.Errorf("bootstrap migrate: %w", err)
	}

	if !cfg.Flags.CreateDefaultAdmin {
		return nil
	}

	existing, err := users.GetUserByEmail(ctx, cfg.DefaultAdminEmail)
	if err != nil {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin hash: %w", err)
	}
	admin := &models.User{
		Email:        cfg.DefaultAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if _, err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap admin create: %w", err)
	}
	if logger != nil {
		logger.Info("default admin created", slog.String("email", cfg.DefaultAdminEmail))
	}

	return nil
}

// Run executes the ordered startup sequence.
func Run(ctx context.Context, cfg *config.Config, d *db.DB, users repository.UserRepo, logger *slog.Logger) error {
	if err := Preflight(ctx, cfg, d); err != nil {
		return err
	}
	if err := CheckInitialized(ctx, cfg, d); err != nil {
		return err
	}
	return Bootstrap(ctx, cfg, d, users, logger)
}
