package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/isdelr/tasktracker/internal/api"
	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/config"
	"github.com/isdelr/tasktracker/internal/database"
	"github.com/isdelr/tasktracker/internal/logger"
	"github.com/isdelr/tasktracker/internal/metrics"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/monitoring"
	"github.com/isdelr/tasktracker/internal/services"
	"github.com/isdelr/tasktracker/internal/store"
	"github.com/isdelr/tasktracker/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Ensure the data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.EventsDBPath), 0755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.EventsDBPath).Msg("Failed to create events database directory")
	}

	if cfg.SessionSecret == "todo_secret" {
		log.Warn().Msg("SESSION_SECRET is the built-in default; set it before exposing the server")
	}
	if cfg.PasswordStorage == config.PasswordStoragePlain {
		log.Warn().Msg("PASSWORD_STORAGE=plain keeps passwords unhashed; do not use this outside local testing")
	}

	hasher, err := auth.NewPasswordHasher(cfg.PasswordStorage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up password storage")
	}

	// Set up database
	db, err := database.New(cfg.EventsDBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.EventsDBPath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	userService := services.NewUserService(store.New[models.User](cfg.UsersFile()), hasher)
	taskService := services.NewTaskService(store.New[models.Task](cfg.TasksFile()))
	eventService := services.NewEventService(db, hub)

	// Set up and run the background scheduler
	scheduler := monitoring.NewScheduler(sessions, eventService, cfg.EventRetention)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Users:    userService,
		Tasks:    taskService,
		Events:   eventService,
		Sessions: sessions,
		Hub:      hub,
		Metrics:  metrics.New(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("data_dir", cfg.DataDir).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
