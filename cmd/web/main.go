// Package main is the entry point for the Recipify web front end. It
// serves HTMX pages and talks to the API server over HTTP.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/recipify/v2/internal/infrastructure/cache"
	"github.com/recipify/v2/internal/infrastructure/config"
	"github.com/recipify/v2/internal/infrastructure/http/webserver"
	"github.com/recipify/v2/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("RECIPIFY_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	apiBaseURL := cfg.Server.APIBaseURL
	if fromEnv := os.Getenv("RECIPIFY_API_URL"); fromEnv != "" {
		apiBaseURL = fromEnv
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	apiClient := webserver.NewAPIClient(apiBaseURL, zapLogger)
	sessionStore := webserver.NewSessionStore(redisClient, time.Duration(cfg.Auth.SessionMaxAge)*time.Second, zapLogger)

	server, err := webserver.NewWebServer(cfg, zapLogger, apiClient, sessionStore)
	if err != nil {
		zapLogger.Fatal("failed to create web server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		zapLogger.Fatal("web server exited", zap.Error(err))
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("web server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("web server stopped")
}
