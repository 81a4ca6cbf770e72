package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/internhub/internhub/api"
	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/internal/bootstrap"
	"github.com/internhub/internhub/internal/config"
	"github.com/internhub/internhub/internal/db"
	"github.com/internhub/internhub/internal/repository/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting internhub server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	// Ordered startup: preflight, init check, bootstrap
	repo := sqlite.New(database, logger)
	if err := bootstrap.Run(ctx, cfg, database, repo, logger); err != nil {
		log.Fatalf("Startup checks failed: %v", err)
	}

	// Refresh-token store only exists for non-strict deployments that
	// opted into revocation.
	var store auth.RefreshStore
	if !cfg.Flags.StatelessStrict && cfg.Flags.AllowRefreshStore && cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to ping redis: %v", err)
		}
		store = auth.NewRedisRefreshStore(client)
	}

	handler := api.SetupRoutes(cfg, version, buildTime, database, store)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
