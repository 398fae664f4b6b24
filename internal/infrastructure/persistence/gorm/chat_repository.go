package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/ports/outbound"
)

// ChatMessageRepository implements the chat message repository using GORM
type ChatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository creates a new chat message repository
func NewChatMessageRepository(db *gorm.DB) outbound.ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Create stores a transcript message
func (r *ChatMessageRepository) Create(ctx context.Context, message *chat.Message) error {
	return r.db.WithContext(ctx).Create(messageToModel(message)).Error
}

// FindByUserID returns the user's most recent messages, oldest first.
func (r *ChatMessageRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*chat.Message, error) {
	var models []ChatMessageModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	// Reverse into chronological order.
	messages := make([]*chat.Message, len(models))
	for i := range models {
		messages[len(models)-1-i] = modelToMessage(&models[i])
	}
	return messages, nil
}

// DeleteByUserID clears a user's transcript
func (r *ChatMessageRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&ChatMessageModel{}).Error
}

// DraftRepository implements the draft repository using GORM
type DraftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *gorm.DB) outbound.DraftRepository {
	return &DraftRepository{db: db}
}

// Create stores a new draft
func (r *DraftRepository) Create(ctx context.Context, draft *chat.Draft) error {
	model, err := draftToModel(draft)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists draft state changes
func (r *DraftRepository) Update(ctx context.Context, draft *chat.Draft) error {
	model, err := draftToModel(draft)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return chat.ErrDraftNotFound
	}
	return nil
}

// FindByID returns a draft, or (nil, nil) when no row exists.
func (r *DraftRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Draft, error) {
	var model DraftModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return modelToDraft(&model)
}

// FindPendingByUserID returns the user's unpublished drafts, newest first.
func (r *DraftRepository) FindPendingByUserID(ctx context.Context, userID uuid.UUID) ([]*chat.Draft, error) {
	var models []DraftModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(chat.DraftStatusDraft)).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	drafts := make([]*chat.Draft, 0, len(models))
	for i := range models {
		draft, err := modelToDraft(&models[i])
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}
