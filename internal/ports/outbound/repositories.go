// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/domain/user"
)

// ChatMessageRepository persists the AI chef conversation.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *chat.Message) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*chat.Message, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// DraftRepository persists AI-suggested recipe drafts until the user
// publishes or discards them.
type DraftRepository interface {
	Create(ctx context.Context, draft *chat.Draft) error
	Update(ctx context.Context, draft *chat.Draft) error
	FindByID(ctx context.Context, id uuid.UUID) (*chat.Draft, error)
	FindPendingByUserID(ctx context.Context, userID uuid.UUID) ([]*chat.Draft, error)
}

// RecipeRepository defines the interface for recipe persistence
// This follows the Repository pattern for data access abstraction
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Update(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByAuthorID(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int64, error)
	FindPublished(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int64, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AIService defines the interface for AI operations
type AIService interface {
	// SuggestRecipe asks the model for a chat reply and, when the
	// prompt warrants one, a structured recipe suggestion.
	SuggestRecipe(ctx context.Context, prompt string, constraints AIConstraints) (*AISuggestion, error)
}

// AIConstraints narrows AI recipe generation.
type AIConstraints struct {
	Dietary     []string
	Servings    int
	MaxTime     time.Duration
	AvoidSteps  []string
	Temperature float64
}

// AISuggestion is what the model returned: a conversational reply and
// an optional recipe payload. Recipe is nil when the model answered
// without proposing a dish.
type AISuggestion struct {
	Reply  string
	Recipe *chat.RecipePayload
	Model  string
}
