// Package main provides the entry point for the Boardsite API server
// @title Boardsite API
// @version 1.0
// @description Board, inquiry and admin account API for the organization website.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session token issued by /auth/login
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"boardsite/internal/api/routes"
	"boardsite/internal/auth"
	"boardsite/internal/config"
	"boardsite/internal/database"
	"boardsite/internal/email"
	"boardsite/internal/logging"
	"boardsite/internal/repository/postgres"
	"boardsite/internal/storage"
	"boardsite/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file. A missing default .env is fine.
	envErr := godotenv.Load(*envFile)
	if envErr != nil && *envFile != ".env" {
		fmt.Fprintf(os.Stderr, "failed to load env file %s: %v\n", *envFile, envErr)
		os.Exit(1)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no env file loaded", "path", *envFile, "error", envErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// Initialize database and run migrations
	db, err := database.SetupDatabase(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	defer db.Close()

	// Initialize validators
	validation.Initialize()

	// Initialize repositories and services
	accounts := postgres.NewAccountRepository(db)
	tokens := auth.NewService(cfg.Auth)
	ips := auth.NewIPResolver(cfg.Auth.PublicIPLookupURL, nil)
	guard := auth.NewGuard(accounts, tokens, ips, logger)

	deps := routes.Dependencies{
		DB:       db,
		Posts:    postgres.NewPostRepository(db),
		Contacts: postgres.NewContactRepository(db),
		Guard:    guard,
		Logger:   logger,
	}

	if cfg.Email.Enabled() {
		mailer := email.NewService(cfg.Email, logger)
		defer mailer.Close()
		deps.Notifier = mailer
	} else {
		logger.Info("inquiry notifications disabled, SMTP is not configured")
	}

	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("setup attachment storage: %w", err)
		}
		deps.Presigner = store
	} else {
		logger.Info("attachment uploads disabled, S3 bucket is not configured")
	}

	// Setup routes
	router := routes.SetupRoutes(cfg, deps)

	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		return fmt.Errorf("invalid port number %q: %w", cfg.API.Port, err)
	}

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
