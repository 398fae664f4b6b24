// Package recipe contains the core domain logic for recipes published
// on the site, including those created from AI Chef drafts.
package recipe

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status tracks a recipe through its lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Recipe is the aggregate root for a published recipe.
type Recipe struct {
	id           uuid.UUID
	title        string
	description  string
	authorID     uuid.UUID
	ingredients  []string
	instructions []string
	cookingTime  time.Duration
	servings     int

	// AI provenance
	aiGenerated bool
	aiPrompt    string
	aiModel     string

	status      Status
	publishedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a recipe with validation.
func New(title, description string, authorID uuid.UUID) (*Recipe, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if len(description) > maxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	now := time.Now()
	return &Recipe{
		id:          uuid.New(),
		title:       title,
		description: description,
		authorID:    authorID,
		status:      StatusDraft,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a recipe from persistence.
func Reconstruct(
	id uuid.UUID,
	title, description string,
	authorID uuid.UUID,
	ingredients, instructions []string,
	cookingTime time.Duration,
	servings int,
	aiGenerated bool,
	aiPrompt, aiModel string,
	status Status,
	publishedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:           id,
		title:        title,
		description:  description,
		authorID:     authorID,
		ingredients:  ingredients,
		instructions: instructions,
		cookingTime:  cookingTime,
		servings:     servings,
		aiGenerated:  aiGenerated,
		aiPrompt:     aiPrompt,
		aiModel:      aiModel,
		status:       status,
		publishedAt:  publishedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *Recipe) ID() uuid.UUID              { return r.id }
func (r *Recipe) Title() string              { return r.title }
func (r *Recipe) Description() string        { return r.description }
func (r *Recipe) AuthorID() uuid.UUID        { return r.authorID }
func (r *Recipe) Ingredients() []string      { return r.ingredients }
func (r *Recipe) Instructions() []string     { return r.instructions }
func (r *Recipe) CookingTime() time.Duration { return r.cookingTime }
func (r *Recipe) Servings() int              { return r.servings }
func (r *Recipe) IsAIGenerated() bool        { return r.aiGenerated }
func (r *Recipe) AIPrompt() string           { return r.aiPrompt }
func (r *Recipe) AIModel() string            { return r.aiModel }
func (r *Recipe) Status() Status             { return r.status }
func (r *Recipe) PublishedAt() *time.Time    { return r.publishedAt }
func (r *Recipe) CreatedAt() time.Time       { return r.createdAt }
func (r *Recipe) UpdatedAt() time.Time       { return r.updatedAt }

// SetContent replaces the ingredient and instruction lists.
func (r *Recipe) SetContent(ingredients, instructions []string) error {
	if len(ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(instructions) == 0 {
		return ErrNoInstructions
	}

	r.ingredients = ingredients
	r.instructions = instructions
	r.updatedAt = time.Now()
	return nil
}

// SetTiming records cooking time and servings.
func (r *Recipe) SetTiming(cookingTime time.Duration, servings int) error {
	if servings <= 0 {
		return ErrInvalidServings
	}

	r.cookingTime = cookingTime
	r.servings = servings
	r.updatedAt = time.Now()
	return nil
}

// MarkAIGenerated records the provenance of an AI-suggested recipe.
func (r *Recipe) MarkAIGenerated(prompt, model string) {
	r.aiGenerated = true
	r.aiPrompt = prompt
	r.aiModel = model
	r.updatedAt = time.Now()
}

// Publish makes the recipe visible. A recipe needs content before it
// can be published.
func (r *Recipe) Publish() error {
	if r.status == StatusPublished {
		return ErrAlreadyPublished
	}
	if r.status == StatusArchived {
		return ErrRecipeArchived
	}
	if len(r.ingredients) == 0 || len(r.instructions) == 0 {
		return ErrIncompleteRecipe
	}

	now := time.Now()
	r.status = StatusPublished
	r.publishedAt = &now
	r.updatedAt = now
	return nil
}

// Archive hides the recipe without deleting it.
func (r *Recipe) Archive() {
	r.status = StatusArchived
	r.updatedAt = time.Now()
}

// URLPath is the site-relative detail page for the recipe.
func (r *Recipe) URLPath() string {
	return fmt.Sprintf("/recipes/%s", r.id)
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < minTitleLength {
		return ErrTitleTooShort
	}
	if len(trimmed) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

const (
	minTitleLength       = 3
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)
