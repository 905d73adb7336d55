package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/storefront-api/internal/auth"
	"github.com/01moynul/storefront-api/internal/config"
	"github.com/01moynul/storefront-api/internal/database"
	"github.com/01moynul/storefront-api/internal/handlers"
	"github.com/01moynul/storefront-api/internal/logging"
	"github.com/01moynul/storefront-api/internal/routes"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 0. --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// 1. --- Main Database Connection ---
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// --- Application Setup ---
	st := store.New(db)
	svc := services.New(st, logger)
	app := handlers.New(svc, auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL), logger, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. --- Background Workers ---
	if cfg.PendingOrderTTL > 0 {
		sweeper := &services.Sweeper{
			Orders:   svc.Orders,
			Store:    st,
			TTL:      cfg.PendingOrderTTL,
			Interval: cfg.SweepInterval,
			Log:      logger.Named("sweeper"),
		}
		go sweeper.Run(ctx)
	}

	// --- Router Setup ---
	router, err := routes.SetupRouter(cfg, app)
	if err != nil {
		logger.Fatal("Failed to set up router", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		logger.Info("Starting storefront API server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
