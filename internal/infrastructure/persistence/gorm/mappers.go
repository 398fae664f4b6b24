package gorm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/domain/user"
)

// Mappers between domain aggregates and GORM models. Domain entities
// are rebuilt with the Reconstruct constructors so persisted rows skip
// creation-time validation.

func userToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		Dietary:      StringSlice(u.DietaryPreferences()),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func modelToUser(m *UserModel) *user.User {
	return user.Reconstruct(
		m.ID,
		m.Email,
		m.Name,
		m.PasswordHash,
		[]string(m.Dietary),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func messageToModel(msg *chat.Message) *ChatMessageModel {
	return &ChatMessageModel{
		ID:        msg.ID(),
		UserID:    msg.UserID(),
		Role:      string(msg.Role()),
		Content:   msg.Content(),
		DraftID:   msg.DraftID(),
		CreatedAt: msg.CreatedAt(),
	}
}

func modelToMessage(m *ChatMessageModel) *chat.Message {
	return chat.ReconstructMessage(
		m.ID,
		m.UserID,
		chat.Role(m.Role),
		m.Content,
		m.DraftID,
		m.CreatedAt,
	)
}

func draftToModel(d *chat.Draft) (*DraftModel, error) {
	payload, err := json.Marshal(d.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft payload: %w", err)
	}

	return &DraftModel{
		ID:          d.ID(),
		UserID:      d.UserID(),
		Prompt:      d.Prompt(),
		Dietary:     d.Dietary(),
		Payload:     string(payload),
		Display:     d.Display(),
		Status:      string(d.Status()),
		CreatedAt:   d.CreatedAt(),
		PublishedAt: d.PublishedAt(),
	}, nil
}

func modelToDraft(m *DraftModel) (*chat.Draft, error) {
	var payload chat.RecipePayload
	if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode draft payload: %w", err)
	}

	return chat.ReconstructDraft(
		m.ID,
		m.UserID,
		m.Prompt,
		m.Dietary,
		payload,
		m.Display,
		chat.DraftStatus(m.Status),
		m.CreatedAt,
		m.PublishedAt,
	), nil
}

func recipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                 r.ID(),
		Title:              r.Title(),
		Description:        r.Description(),
		AuthorID:           r.AuthorID(),
		Ingredients:        StringSlice(r.Ingredients()),
		Instructions:       StringSlice(r.Instructions()),
		CookingTimeMinutes: int(r.CookingTime() / time.Minute),
		Servings:           r.Servings(),
		AIGenerated:        r.IsAIGenerated(),
		AIPrompt:           r.AIPrompt(),
		AIModel:            r.AIModel(),
		Status:             string(r.Status()),
		PublishedAt:        r.PublishedAt(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}

func modelToRecipe(m *RecipeModel) *recipe.Recipe {
	return recipe.Reconstruct(
		m.ID,
		m.Title,
		m.Description,
		m.AuthorID,
		[]string(m.Ingredients),
		[]string(m.Instructions),
		time.Duration(m.CookingTimeMinutes)*time.Minute,
		m.Servings,
		m.AIGenerated,
		m.AIPrompt,
		m.AIModel,
		recipe.Status(m.Status),
		m.PublishedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
