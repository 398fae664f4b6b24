package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/domain/user"
	"github.com/recipify/v2/internal/infrastructure/http/middleware"
	"github.com/recipify/v2/internal/infrastructure/monitoring"
	"github.com/recipify/v2/internal/ports/inbound"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	userService inbound.UserService
	metrics     *monitoring.MetricsCollector
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates the auth API handler.
func NewAuthHandler(userService inbound.UserService, metrics *monitoring.MetricsCollector, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		metrics:     metrics,
		validator:   validator.New(),
		logger:      logger.Named("auth-api"),
	}
}

// RegisterRequest is the request body for account creation.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	DietaryPreferences []string `json:"dietary_preferences" validate:"max=20,dive,max=100"`
}

// UserPayload is the account representation on the wire.
type UserPayload struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	CreatedAt          time.Time `json:"created_at"`
}

// AuthPayload is the result of a successful register or login.
type AuthPayload struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserPayload `json:"user"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: validationMessage(err)})
		return
	}

	result, err := h.userService.Register(r.Context(), inbound.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.RecordUserRegistered()
	writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    authPayload(result),
		Message: "account created",
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: validationMessage(err)})
		return
	}

	result, err := h.userService.Login(r.Context(), inbound.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: authPayload(result)})
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Error: "authentication required"})
		return
	}

	account, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: userPayload(account)})
}

// UpdateProfile handles PUT /api/v1/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Error: "authentication required"})
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: validationMessage(err)})
		return
	}

	account, err := h.userService.UpdateDietaryPreferences(r.Context(), userID, req.DietaryPreferences)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: userPayload(account)})
}

func authPayload(result *inbound.AuthResult) AuthPayload {
	return AuthPayload{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        userPayload(result.User),
	}
}

func userPayload(account *user.User) UserPayload {
	return UserPayload{
		ID:                 account.ID().String(),
		Name:               account.Name(),
		Email:              account.Email(),
		DietaryPreferences: account.DietaryPreferences(),
		CreatedAt:          account.CreatedAt(),
	}
}

// validationMessage flattens the first validator failure into a client
// facing message.
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		field := errs[0]
		switch field.Tag() {
		case "required":
			return field.Field() + " is required"
		case "email":
			return "invalid email address"
		case "min":
			return field.Field() + " is too short"
		case "max":
			return field.Field() + " is too long"
		}
	}
	return "validation failed"
}
