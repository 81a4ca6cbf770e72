package main

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/internhub/internhub/internal/bootstrap"
	"github.com/internhub/internhub/internal/config"
	"github.com/internhub/internhub/internal/db"
	"github.com/internhub/internhub/internal/repository/sqlite"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// the whole point of this tool is initialization, whatever the env says
	cfg.Flags.EnableBootstrap = true

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo := sqlite.New(database, logger)
	if err := bootstrap.Bootstrap(ctx, cfg, database, repo, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
