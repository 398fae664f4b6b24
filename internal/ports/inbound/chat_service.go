// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/recipify/v2/internal/domain/chat"
)

// ChatService defines the AI chef use cases. HTTP handlers and the web
// front end drive the application through this port.
type ChatService interface {
	// SendMessage records the user's prompt, asks the AI chef for a
	// reply, and stores the assistant message plus any recipe draft
	// the model proposed.
	SendMessage(ctx context.Context, cmd SendMessageCommand) (*ChatReply, error)

	// PublishDraft turns a pending draft into a published recipe
	// owned by the requesting user.
	PublishDraft(ctx context.Context, draftID, userID uuid.UUID) (*PublishResult, error)

	// History returns the user's recent conversation, oldest first.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*chat.Message, error)
}

// SendMessageCommand carries one user turn of the conversation.
type SendMessageCommand struct {
	UserID  uuid.UUID
	Prompt  string
	Dietary []string
}

// ChatReply is the assistant's side of one turn.
type ChatReply struct {
	Message *chat.Message
	Draft   *chat.Draft
}

// PublishResult points at the recipe created from a draft.
type PublishResult struct {
	RecipeID  uuid.UUID
	RecipeURL string
}
