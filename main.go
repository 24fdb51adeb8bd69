package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// optional .env; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.WithError(err).Warn("load .env")
	}

	cfg, err := config.Load(os.Getenv("FT_CONFIG"))
	if err != nil {
		logger.Log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		logger.Log.Fatalf("init logger: %v", err)
	}
	defer logger.Close()

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("init database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Log.Fatalf("migrate database: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           router.SetupRouter(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("server shutdown")
		}
	}()

	logger.Log.WithField("addr", srv.Addr).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("run server: %v", err)
	}
	<-drained
	logger.Log.Info("server stopped")
}
