// Package handlers provides HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/recipify/v2/pkg/errors"
)

// APIResponse is the standard envelope for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeJSON writes a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps an application error onto the response envelope.
// AppError codes drive the HTTP status; anything else is a 500 with a
// generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		writeJSON(w, appErr.StatusCode(), APIResponse{
			Success: false,
			Error:   appErr.Message,
		})
		return
	}

	logger.Error("unhandled error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, APIResponse{
		Success: false,
		Error:   "internal server error",
	})
}

// statusAndMessage resolves an error to an HTTP status and a client
// safe message for endpoints with bespoke response shapes.
func statusAndMessage(err error) (int, string) {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.StatusCode(), appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	version string
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now()}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
