package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/infrastructure/http/middleware"
	"github.com/recipify/v2/internal/infrastructure/monitoring"
	"github.com/recipify/v2/internal/ports/inbound"
)

// ChatHandler exposes the AI chef conversation over HTTP.
type ChatHandler struct {
	chatService inbound.ChatService
	metrics     *monitoring.MetricsCollector
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewChatHandler creates the chat API handler.
func NewChatHandler(chatService inbound.ChatService, metrics *monitoring.MetricsCollector, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		metrics:     metrics,
		validator:   validator.New(),
		logger:      logger.Named("chat-api"),
	}
}

// SendMessageRequest is the request body for a chat turn.
type SendMessageRequest struct {
	Prompt  string   `json:"prompt" validate:"required,max=2000"`
	Dietary []string `json:"dietary_requirements" validate:"max=10,dive,max=100"`
}

// MessagePayload is the assistant message on the wire.
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DraftPayload is the draft summary on the wire.
type DraftPayload struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PublishURL string `json:"publish_url"`
}

// chatReplyBody is the top-level chat reply. The web front end parses
// message and draft as independent optional members, so this endpoint
// does not use the APIResponse envelope.
type chatReplyBody struct {
	Message *MessagePayload `json:"message,omitempty"`
	Draft   *DraftPayload   `json:"draft,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// publishBody is the top-level publish reply.
type publishBody struct {
	Success   bool   `json:"success"`
	RecipeURL string `json:"recipe_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendMessage handles POST /api/v1/ai/chef/message.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, chatReplyBody{Error: "authentication required"})
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatReplyBody{Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatReplyBody{Error: "prompt is required"})
		return
	}

	reply, err := h.chatService.SendMessage(r.Context(), inbound.SendMessageCommand{
		UserID:  userID,
		Prompt:  req.Prompt,
		Dietary: req.Dietary,
	})
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	h.metrics.RecordChatMessage()

	body := chatReplyBody{
		Message: &MessagePayload{
			Role:    string(reply.Message.Role()),
			Content: reply.Message.Content(),
		},
	}
	if reply.Draft != nil {
		h.metrics.RecordDraftCreated()
		body.Draft = &DraftPayload{
			ID:         reply.Draft.ID().String(),
			Title:      reply.Draft.Title(),
			PublishURL: reply.Draft.PublishPath(),
		}
	}

	writeJSON(w, http.StatusOK, body)
}

// PublishDraft handles POST /api/v1/ai/chef/publish/{draftID}.
func (h *ChatHandler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, publishBody{Error: "authentication required"})
		return
	}

	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, publishBody{Error: "invalid draft id"})
		return
	}

	result, err := h.chatService.PublishDraft(r.Context(), draftID, userID)
	if err != nil {
		h.writePublishError(w, err)
		return
	}

	h.metrics.RecordDraftPublished()
	writeJSON(w, http.StatusOK, publishBody{
		Success:   true,
		RecipeURL: result.RecipeURL,
	})
}

// History handles GET /api/v1/ai/chef/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Error: "authentication required"})
		return
	}

	messages, err := h.chatService.History(r.Context(), userID, 0)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	payload := make([]MessagePayload, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, MessagePayload{
			Role:    string(m.Role()),
			Content: m.Content(),
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: payload})
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	status, message := statusAndMessage(err)
	h.logger.Warn("chat turn failed", zap.Error(err))
	writeJSON(w, status, chatReplyBody{Error: message})
}

func (h *ChatHandler) writePublishError(w http.ResponseWriter, err error) {
	status, message := statusAndMessage(err)
	h.logger.Warn("publish failed", zap.Error(err))
	writeJSON(w, status, publishBody{Success: false, Error: message})
}
