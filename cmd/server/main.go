package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/noticiero/cms/internal/api"
	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/database"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/service"
	"github.com/noticiero/cms/internal/sessions"
	"github.com/noticiero/cms/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Noticiero CMS server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize the upload directory
	uploads, err := assets.NewManager(cfg.Uploads.Dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload directory")
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, uploads, cfg, log)

	// Create the first administrator when none exists yet
	if err := services.Auth.Bootstrap(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap administrator account")
	}

	// Cookie session store
	secret := cfg.Session.Secret
	if secret == "" {
		secret = "dev-insecure-secret-change-me-now"
		log.Warn().Msg("SESSION_SECRET is not set; using an insecure development secret")
	}
	store := sessions.New(secret, cfg.Session.Secure)

	// Initialize router
	router := api.NewRouter(services, store, uploads, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
