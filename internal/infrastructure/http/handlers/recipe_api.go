package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/ports/outbound"
	"github.com/recipify/v2/pkg/errors"
)

// RecipeHandler exposes read access to published recipes.
type RecipeHandler struct {
	recipeRepo outbound.RecipeRepository
	logger     *zap.Logger
}

// NewRecipeHandler creates the recipe API handler.
func NewRecipeHandler(recipeRepo outbound.RecipeRepository, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeRepo: recipeRepo,
		logger:     logger.Named("recipe-api"),
	}
}

// RecipePayload is the recipe representation on the wire.
type RecipePayload struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Ingredients        []string   `json:"ingredients"`
	Instructions       []string   `json:"instructions"`
	CookingTimeMinutes int        `json:"cooking_time_minutes"`
	Servings           int        `json:"servings"`
	AIGenerated        bool       `json:"ai_generated"`
	URL                string     `json:"url"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	recipes, total, err := h.recipeRepo.FindPublished(r.Context(), offset, limit)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("list recipes", err))
		return
	}

	payload := make([]RecipePayload, 0, len(recipes))
	for _, rec := range recipes {
		payload = append(payload, recipePayload(rec))
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"recipes": payload,
			"total":   total,
			"limit":   limit,
			"offset":  offset,
		},
	})
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "invalid recipe id"})
		return
	}

	rec, err := h.recipeRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, errors.NewDatabaseError("find recipe", err))
		return
	}
	if rec == nil {
		writeError(w, h.logger, errors.NewRecipeNotFoundError(id.String()))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: recipePayload(rec)})
}

func recipePayload(rec *recipe.Recipe) RecipePayload {
	return RecipePayload{
		ID:                 rec.ID().String(),
		Title:              rec.Title(),
		Description:        rec.Description(),
		Ingredients:        rec.Ingredients(),
		Instructions:       rec.Instructions(),
		CookingTimeMinutes: int(rec.CookingTime().Minutes()),
		Servings:           rec.Servings(),
		AIGenerated:        rec.IsAIGenerated(),
		URL:                rec.URLPath(),
		PublishedAt:        rec.PublishedAt(),
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
