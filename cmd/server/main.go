package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/api"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/app"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smart-inventory/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	applied, err := db.Migrate(ctx)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	if len(applied) > 0 {
		logger.Log.Info().Strs("versions", applied).Msg("Applied migrations")
	}

	application, err := app.New(ctx, cfg, db)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer application.Close()

	router := api.NewRouter(application.Services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// No WriteTimeout: it would cut off the inventory event stream.
		IdleTimeout: 2 * time.Minute,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
