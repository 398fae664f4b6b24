// Package webserver provides the HTMX web front end.
package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/infrastructure/config"
	"github.com/recipify/v2/internal/infrastructure/http/middleware"
	"github.com/recipify/v2/internal/infrastructure/markup"
)

// errorBubblePrefix introduces application errors in the transcript so
// raw backend messages never appear without context.
const errorBubblePrefix = "Sorry, something went wrong: "

// WebServer serves the HTML pages and HTMX fragments of the web front
// end. All data access goes through the backend API client.
type WebServer struct {
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
	router       *chi.Mux
	apiClient    *APIClient
	sessionStore *SessionStore
	builder      *markup.Builder
	templates    *template.Template
}

// NewWebServer creates the web front end server.
func NewWebServer(
	cfg *config.Config,
	log *zap.Logger,
	apiClient *APIClient,
	sessionStore *SessionStore,
) (*WebServer, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	server := &WebServer{
		config:       cfg,
		logger:       log,
		apiClient:    apiClient,
		sessionStore: sessionStore,
		builder:      markup.NewBuilder(markup.NewRenderer(log)),
		templates:    templates,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.WebPort),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(&s.config.RateLimit))
	r.Use(csrf.Protect(
		[]byte(s.config.Auth.SessionSecret),
		csrf.Secure(s.config.IsProduction()),
		csrf.Path("/"),
		csrf.CookieName("csrftoken"),
		csrf.FieldName("csrfmiddlewaretoken"),
		csrf.RequestHeader("X-CSRFToken"),
	))

	r.Get("/health", s.handleHealthCheck)

	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/recipes", s.handleRecipeList)
		r.Get("/recipes/{id}", s.handleRecipeDetail)
		r.Get("/ai/chef", s.handleChatPage)
		r.Post("/api/v1/ai/chef/publish/{draftID}", s.handlePublishForm)
	})

	r.Route("/htmx", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/ai/chef/message", s.handleChatMessage)
		r.Post("/ai/chef/publish/{draftID}", s.handlePublish)
		r.Get("/ai/chef/status", s.handleChatStatus)
	})

	return r
}

// Start starts the web server.
func (s *WebServer) Start() error {
	s.logger.Info("starting web server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")
	return s.server.Shutdown(ctx)
}

// Router exposes the handler tree, mostly for tests.
func (s *WebServer) Router() http.Handler {
	return s.router
}

// requireAuth redirects anonymous visitors to the login page. HTMX
// requests get an HX-Redirect header instead of a 302 so the browser
// performs a full navigation.
func (s *WebServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.sessionStore.Get(r)
		if session == nil || !session.Authenticated() {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *WebServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.apiClient.VerifyConnection(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","backend":"unreachable"}`))
		return
	}
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)
	if session != nil && session.Authenticated() {
		http.Redirect(w, r, "/ai/chef", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *WebServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "login", pageData{Title: "Sign in"})
}

func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, "login", pageData{Title: "Sign in", Error: "invalid form submission"})
		return
	}

	auth, err := s.apiClient.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		s.renderPage(w, r, "login", pageData{Title: "Sign in", Error: "Invalid email or password."})
		return
	}

	s.establishSession(w, r, auth)
	http.Redirect(w, r, "/ai/chef", http.StatusSeeOther)
}

func (s *WebServer) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "register", pageData{Title: "Create account"})
}

func (s *WebServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, "register", pageData{Title: "Create account", Error: "invalid form submission"})
		return
	}

	auth, err := s.apiClient.Register(
		r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		s.renderPage(w, r, "register", pageData{Title: "Create account", Error: err.Error()})
		return
	}

	s.establishSession(w, r, auth)
	http.Redirect(w, r, "/ai/chef", http.StatusSeeOther)
}

func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session := s.sessionStore.Get(r); session != nil {
		s.sessionStore.Delete(r.Context(), session.ID)
	}
	s.sessionStore.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *WebServer) handleRecipeList(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)

	recipes, err := s.apiClient.GetRecipes(r.Context(), session.AccessToken)
	if err != nil {
		s.logger.Error("failed to load recipes", zap.Error(err))
		s.renderPage(w, r, "recipes", pageData{Title: "Recipes", Error: "Could not load recipes."})
		return
	}

	s.renderPage(w, r, "recipes", pageData{Title: "Recipes", Recipes: recipes})
}

func (s *WebServer) handleRecipeDetail(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)

	rec, err := s.apiClient.GetRecipe(r.Context(), session.AccessToken, chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.renderPage(w, r, "recipe", pageData{Title: rec.Title, Recipe: rec})
}

// handleChatPage renders the AI chef page with the stored transcript.
func (s *WebServer) handleChatPage(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)

	var transcript []template.HTML
	history, err := s.apiClient.GetChatHistory(r.Context(), session.AccessToken)
	if err != nil {
		s.logger.Warn("failed to load chat history", zap.Error(err))
	}
	for _, m := range history {
		allowHTML := m.Role == markup.RoleAssistant
		transcript = append(transcript, template.HTML(s.builder.BuildMessageMarkup(m.Role, m.Content, allowHTML)))
	}

	s.renderPage(w, r, "chat", pageData{
		Title:      "AI Chef",
		Transcript: transcript,
	})
}

// handleChatMessage processes one chat turn and returns transcript
// fragments for the HTMX swap: the user's bubble, the assistant's
// bubble, and the publish form when the reply carried a usable draft.
func (s *WebServer) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	prompt := strings.TrimSpace(r.PostFormValue("prompt"))
	if prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	dietary := splitDietary(r.PostFormValue("dietary_requirements"))

	var sb strings.Builder
	sb.WriteString(s.builder.BuildMessageMarkup(markup.RoleUser, prompt, false))

	raw, err := s.apiClient.SendChatMessage(r.Context(), session.AccessToken, prompt, dietary)
	if err != nil {
		s.logger.Error("chat request failed", zap.Error(err))
		sb.WriteString(s.builder.BuildMessageMarkup(markup.RoleAssistant, "The kitchen is unreachable right now. Please try again.", false))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(sb.String()))
		return
	}

	parsed := markup.ParseResponse(raw)
	if !parsed.Success {
		sb.WriteString(s.builder.BuildMessageMarkup(markup.RoleAssistant, errorBubblePrefix+parsed.Error, false))
	} else {
		if parsed.Message != nil {
			allowHTML := parsed.Message.Role == markup.RoleAssistant
			sb.WriteString(s.builder.BuildMessageMarkup(parsed.Message.Role, parsed.Message.Content, allowHTML))
		}
		sb.WriteString(s.builder.BuildPublishMarkup(parsed.Draft, csrf.Token(r)))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(sb.String()))
}

// handlePublish publishes a draft from an HTMX request and swaps in a
// confirmation bubble linking to the new recipe.
func (s *WebServer) handlePublish(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)
	draftID := chi.URLParam(r, "draftID")

	raw, err := s.apiClient.PublishDraft(r.Context(), session.AccessToken, draftID)
	if err != nil {
		s.logger.Error("publish request failed", zap.Error(err))
		s.writeFragment(w, s.builder.BuildMessageMarkup(markup.RoleAssistant, "Publishing failed. Please try again.", false))
		return
	}

	success, recipeURL, errText := parsePublishReply(raw)
	if !success {
		s.writeFragment(w, s.builder.BuildMessageMarkup(markup.RoleAssistant, errorBubblePrefix+errText, false))
		return
	}

	// The render path escapes the URL; escaping here as well would
	// double-encode ampersands in the href.
	content := fmt.Sprintf(`Recipe published! <a href="%s">View your recipe</a>.`, recipeURL)
	s.writeFragment(w, s.builder.BuildMessageMarkup(markup.RoleAssistant, content, true))
}

// handlePublishForm handles the non-HTMX publish form post and
// redirects to the published recipe.
func (s *WebServer) handlePublishForm(w http.ResponseWriter, r *http.Request) {
	session := s.sessionStore.Get(r)

	raw, err := s.apiClient.PublishDraft(r.Context(), session.AccessToken, chi.URLParam(r, "draftID"))
	if err != nil {
		http.Redirect(w, r, "/ai/chef", http.StatusSeeOther)
		return
	}

	success, recipeURL, _ := parsePublishReply(raw)
	if !success || recipeURL == "" {
		http.Redirect(w, r, "/ai/chef", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, recipeURL, http.StatusSeeOther)
}

// handleChatStatus returns the waiting label for the elapsed time
// since the prompt was sent. The chat page polls it while a reply is
// pending.
func (s *WebServer) handleChatStatus(w http.ResponseWriter, r *http.Request) {
	seconds, _ := strconv.ParseFloat(r.URL.Query().Get("elapsed"), 64)
	label := markup.StatusLabel(time.Duration(seconds * float64(time.Second)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<span class="chat-status">%s</span>`, markup.Escape(label))
}

func (s *WebServer) establishSession(w http.ResponseWriter, r *http.Request, auth *AuthResponse) {
	session := s.sessionStore.New(r.Context())
	session.UserID = auth.User.ID
	session.AccessToken = auth.AccessToken
	if err := s.sessionStore.Save(r.Context(), session); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
	}

	s.sessionStore.WriteCookie(w, session, s.config.IsProduction())
}

func (s *WebServer) writeFragment(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func splitDietary(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePublishReply(raw []byte) (success bool, recipeURL, errText string) {
	parsed := markup.ParseResponse(raw)
	if !parsed.Success {
		return false, "", parsed.Error
	}

	var body struct {
		Success   bool   `json:"success"`
		RecipeURL string `json:"recipe_url"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || !body.Success {
		return false, "", markup.ErrInvalidResponse
	}

	return true, body.RecipeURL, ""
}

type pageData struct {
	Title      string
	Error      string
	CSRFToken  string
	Transcript []template.HTML
	Recipes    []RecipeResponse
	Recipe     *RecipeResponse
}

func (s *WebServer) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.CSRFToken = csrf.Token(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template execution failed",
			zap.String("template", name),
			zap.Error(err),
		)
	}
}
