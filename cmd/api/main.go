// Package main is the entry point for the Recipify API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appchat "github.com/recipify/v2/internal/application/chat"
	appuser "github.com/recipify/v2/internal/application/user"
	"github.com/recipify/v2/internal/infrastructure/ai"
	"github.com/recipify/v2/internal/infrastructure/cache"
	"github.com/recipify/v2/internal/infrastructure/config"
	"github.com/recipify/v2/internal/infrastructure/http/apiserver"
	"github.com/recipify/v2/internal/infrastructure/monitoring"
	persistence "github.com/recipify/v2/internal/infrastructure/persistence/gorm"
	"github.com/recipify/v2/internal/infrastructure/security"
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

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("api server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := persistence.Open(cfg, zapLogger)
	if err != nil {
		return err
	}
	if err := persistence.Migrate(db); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(&cfg.Redis, zapLogger)
	if err != nil {
		return err
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}, zapLogger)

	messageRepo := persistence.NewChatMessageRepository(db)
	draftRepo := persistence.NewDraftRepository(db)
	recipeRepo := persistence.NewRecipeRepository(db)
	userRepo := persistence.NewUserRepository(db)

	authService := security.NewAuthService(&cfg.Auth, zapLogger)
	chatService := appchat.NewChatService(messageRepo, draftRepo, recipeRepo, userRepo, redisCache, aiClient, zapLogger)
	userService := appuser.NewUserService(userRepo, authService, cfg.Auth.JWTExpiration, zapLogger)
	metrics := monitoring.NewMetricsCollector(zapLogger)

	server := apiserver.NewAPIServer(cfg, zapLogger, chatService, userService, recipeRepo, authService, metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zapLogger.Info("api server stopped")
	return nil
}
