// Package chat provides the application layer for the AI chef
// conversation: suggest, draft, publish.
package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/ports/inbound"
	"github.com/recipify/v2/internal/ports/outbound"
	"github.com/recipify/v2/pkg/errors"
)

// ApologyReply is what the assistant says when the AI backend fails.
// The user still gets a transcript entry instead of a dead request.
const ApologyReply = "Sorry, my stove just went out. Please try again in a moment."

const (
	defaultHistoryLimit = 50
	suggestionCacheTTL  = time.Hour
)

// ChatService implements the AI chef use cases
type ChatService struct {
	messageRepo outbound.ChatMessageRepository
	draftRepo   outbound.DraftRepository
	recipeRepo  outbound.RecipeRepository
	userRepo    outbound.UserRepository
	cache       outbound.CacheRepository
	aiService   outbound.AIService
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	messageRepo outbound.ChatMessageRepository,
	draftRepo outbound.DraftRepository,
	recipeRepo outbound.RecipeRepository,
	userRepo outbound.UserRepository,
	cache outbound.CacheRepository,
	aiService outbound.AIService,
	logger *zap.Logger,
) inbound.ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		draftRepo:   draftRepo,
		recipeRepo:  recipeRepo,
		userRepo:    userRepo,
		cache:       cache,
		aiService:   aiService,
		logger:      logger.Named("chat-service"),
	}
}

// SendMessage records the user's prompt, consults the AI chef, and
// stores the reply plus any recipe draft the model proposed.
func (s *ChatService) SendMessage(ctx context.Context, cmd inbound.SendMessageCommand) (*inbound.ChatReply, error) {
	prompt := strings.TrimSpace(cmd.Prompt)
	if prompt == "" {
		return nil, errors.NewValidationError("prompt cannot be empty")
	}

	s.logger.Info("Handling chat message",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("prompt_length", len(prompt)),
	)

	// A request without explicit dietary requirements falls back to
	// the preferences stored on the user's profile.
	dietary := cmd.Dietary
	if len(dietary) == 0 && s.userRepo != nil {
		if u, err := s.userRepo.FindByID(ctx, cmd.UserID); err == nil && u != nil {
			dietary = u.DietaryPreferences()
		}
	}

	// Dietary requirements travel inside the prompt the model sees,
	// the same way the chat box folds them into one request.
	effectivePrompt := foldDietary(prompt, dietary)

	userMsg, err := chat.NewMessage(cmd.UserID, chat.RoleUser, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user message")
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, errors.NewDatabaseError("store user message", err)
	}

	suggestion, err := s.suggest(ctx, effectivePrompt, dietary)
	if err != nil {
		s.logger.Warn("AI suggestion failed, replying with apology",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
		return s.apologize(ctx, cmd.UserID)
	}

	reply := strings.TrimSpace(suggestion.Reply)
	if reply == "" {
		reply = ApologyReply
	}

	assistantMsg, err := chat.NewMessage(cmd.UserID, chat.RoleAssistant, reply)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create assistant message")
	}

	var draft *chat.Draft
	if suggestion.Recipe != nil {
		draft, err = chat.NewDraft(cmd.UserID, prompt, strings.Join(dietary, ", "), *suggestion.Recipe, reply)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create draft")
		}
		if err := s.draftRepo.Create(ctx, draft); err != nil {
			return nil, errors.NewDatabaseError("store draft", err)
		}
		assistantMsg.AttachDraft(draft.ID())
	}

	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, errors.NewDatabaseError("store assistant message", err)
	}

	return &inbound.ChatReply{Message: assistantMsg, Draft: draft}, nil
}

// PublishDraft turns a pending draft into a published recipe.
func (s *ChatService) PublishDraft(ctx context.Context, draftID, userID uuid.UUID) (*inbound.PublishResult, error) {
	s.logger.Info("Publishing draft",
		zap.String("draft_id", draftID.String()),
		zap.String("user_id", userID.String()),
	)

	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, errors.NewDatabaseError("find draft", err)
	}
	if draft == nil {
		return nil, errors.NewDraftNotFoundError(draftID.String())
	}
	if !draft.OwnedBy(userID) {
		return nil, errors.NewNotOwnerError("draft")
	}

	if err := draft.MarkPublished(); err != nil {
		switch err {
		case chat.ErrDraftAlreadyPublished:
			return nil, errors.NewDraftAlreadyPublishedError(draftID.String())
		default:
			return nil, errors.Wrap(err, "failed to publish draft")
		}
	}

	recipeEntity, err := s.recipeFromDraft(draft, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build recipe from draft")
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, errors.NewDatabaseError("update draft status", err)
	}

	s.logger.Info("Draft published",
		zap.String("draft_id", draftID.String()),
		zap.String("recipe_id", recipeEntity.ID().String()),
	)

	return &inbound.PublishResult{
		RecipeID:  recipeEntity.ID(),
		RecipeURL: recipeEntity.URLPath(),
	}, nil
}

// History returns the user's recent transcript, oldest first.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*chat.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	messages, err := s.messageRepo.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("load chat history", err)
	}
	return messages, nil
}

// suggest consults the cache before the model. Identical prompts with
// identical dietary constraints reuse the cached suggestion.
func (s *ChatService) suggest(ctx context.Context, prompt string, dietary []string) (*outbound.AISuggestion, error) {
	key := suggestionCacheKey(prompt)

	if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		var suggestion outbound.AISuggestion
		if err := json.Unmarshal(cached, &suggestion); err == nil {
			s.logger.Debug("Suggestion cache hit", zap.String("key", key))
			return &suggestion, nil
		}
		// Unreadable cache entries are dropped, not returned.
		_ = s.cache.Delete(ctx, key)
	}

	suggestion, err := s.aiService.SuggestRecipe(ctx, prompt, outbound.AIConstraints{Dietary: dietary})
	if err != nil {
		return nil, errors.NewAIUnavailableError(err)
	}

	if encoded, err := json.Marshal(suggestion); err == nil {
		if err := s.cache.Set(ctx, key, encoded, suggestionCacheTTL); err != nil {
			s.logger.Debug("Failed to cache suggestion", zap.Error(err))
		}
	}

	return suggestion, nil
}

// apologize stores and returns a canned assistant reply so the
// transcript stays coherent after an AI failure.
func (s *ChatService) apologize(ctx context.Context, userID uuid.UUID) (*inbound.ChatReply, error) {
	msg, err := chat.NewMessage(userID, chat.RoleAssistant, ApologyReply)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create apology message")
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, errors.NewDatabaseError("store apology message", err)
	}
	return &inbound.ChatReply{Message: msg}, nil
}

func (s *ChatService) recipeFromDraft(draft *chat.Draft, authorID uuid.UUID) (*recipe.Recipe, error) {
	payload := draft.Payload()

	recipeEntity, err := recipe.New(draft.Title(), payload.Description, authorID)
	if err != nil {
		return nil, err
	}
	if err := recipeEntity.SetContent(payload.Ingredients, payload.Instructions); err != nil {
		return nil, err
	}
	servings := payload.Servings
	if servings <= 0 {
		servings = 2
	}
	if err := recipeEntity.SetTiming(time.Duration(payload.CookingTime)*time.Minute, servings); err != nil {
		return nil, err
	}
	recipeEntity.MarkAIGenerated(draft.Prompt(), "")
	if err := recipeEntity.Publish(); err != nil {
		return nil, err
	}
	return recipeEntity, nil
}

// foldDietary appends dietary requirements to the prompt text.
func foldDietary(prompt string, dietary []string) string {
	cleaned := make([]string, 0, len(dietary))
	for _, d := range dietary {
		d = strings.TrimSpace(d)
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		return prompt
	}
	return fmt.Sprintf("%s\n\nDietary requirements: %s", prompt, strings.Join(cleaned, ", "))
}

func suggestionCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "ai:suggestion:" + hex.EncodeToString(sum[:])
}
