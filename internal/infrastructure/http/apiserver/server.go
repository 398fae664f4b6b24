// Package apiserver provides the JSON API HTTP server.
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/infrastructure/config"
	"github.com/recipify/v2/internal/infrastructure/http/handlers"
	"github.com/recipify/v2/internal/infrastructure/http/middleware"
	"github.com/recipify/v2/internal/infrastructure/monitoring"
	"github.com/recipify/v2/internal/infrastructure/security"
	"github.com/recipify/v2/internal/ports/inbound"
	"github.com/recipify/v2/internal/ports/outbound"
)

// APIServer serves the JSON API.
type APIServer struct {
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
	router      *chi.Mux
	chatService inbound.ChatService
	userService inbound.UserService
	recipeRepo  outbound.RecipeRepository
	authService *security.AuthService
	metrics     *monitoring.MetricsCollector
}

// NewAPIServer creates a new API server instance.
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	chatService inbound.ChatService,
	userService inbound.UserService,
	recipeRepo outbound.RecipeRepository,
	authService *security.AuthService,
	metrics *monitoring.MetricsCollector,
) *APIServer {
	server := &APIServer{
		config:      cfg,
		logger:      log,
		chatService: chatService,
		userService: userService,
		recipeRepo:  recipeRepo,
		authService: authService,
		metrics:     metrics,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(&s.config.RateLimit))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
	}

	health := handlers.NewHealthHandler(s.config.App.Version)
	r.Get("/health", health.Health)

	if s.metrics != nil && s.config.Metrics.Enable {
		path := s.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	authH := handlers.NewAuthHandler(s.userService, s.metrics, s.logger)
	chatH := handlers.NewChatHandler(s.chatService, s.metrics, s.logger)
	recipeH := handlers.NewRecipeHandler(s.recipeRepo, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authService))
			r.Get("/profile", authH.Profile)
			r.Put("/profile", authH.UpdateProfile)
		})
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeH.List)
		r.Get("/{id}", recipeH.Get)
	})

	r.Route("/ai/chef", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authService))
		r.Post("/message", chatH.SendMessage)
		r.Post("/publish/{draftID}", chatH.PublishDraft)
		r.Get("/history", chatH.History)
	})
}

// Start starts the API server.
func (s *APIServer) Start() error {
	s.logger.Info("starting API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// Router exposes the handler tree, mostly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}
