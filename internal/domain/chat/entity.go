// Package chat contains the AI Chef conversation domain: the messages
// exchanged with the assistant and the recipe drafts it proposes.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two transcript roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of a user's chat transcript. User-authored
// content is never rendered as HTML downstream; it is only ever
// escaped. Assistant content may go through the markup renderer.
type Message struct {
	id        uuid.UUID
	userID    uuid.UUID
	role      Role
	content   string
	draftID   *uuid.UUID
	createdAt time.Time
}

// NewMessage creates a transcript message with validation.
func NewMessage(userID uuid.UUID, role Role, content string) (*Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	return &Message{
		id:        uuid.New(),
		userID:    userID,
		role:      role,
		content:   content,
		createdAt: time.Now(),
	}, nil
}

// ReconstructMessage rebuilds a message from persistence without
// re-running creation-time validation.
func ReconstructMessage(id, userID uuid.UUID, role Role, content string, draftID *uuid.UUID, createdAt time.Time) *Message {
	return &Message{
		id:        id,
		userID:    userID,
		role:      role,
		content:   content,
		draftID:   draftID,
		createdAt: createdAt,
	}
}

func (m *Message) ID() uuid.UUID        { return m.id }
func (m *Message) UserID() uuid.UUID    { return m.userID }
func (m *Message) Role() Role           { return m.role }
func (m *Message) Content() string      { return m.content }
func (m *Message) DraftID() *uuid.UUID  { return m.draftID }
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// AttachDraft links the message to the draft it announced.
func (m *Message) AttachDraft(draftID uuid.UUID) {
	m.draftID = &draftID
}

// DraftStatus tracks a draft through its lifecycle.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusPublished DraftStatus = "published"
	DraftStatusDiscarded DraftStatus = "discarded"
)

// RecipePayload is the structured recipe content the assistant
// proposed, held by a draft until the user publishes it.
type RecipePayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  int      `json:"cooking_time_minutes"`
	Servings     int      `json:"servings"`
}

// Draft is a server-generated, not-yet-published recipe proposal
// awaiting the user's confirmation.
type Draft struct {
	id          uuid.UUID
	userID      uuid.UUID
	prompt      string
	dietary     string
	payload     RecipePayload
	display     string
	status      DraftStatus
	createdAt   time.Time
	publishedAt *time.Time
}

// NewDraft creates a draft from an assistant suggestion.
func NewDraft(userID uuid.UUID, prompt, dietary string, payload RecipePayload, display string) (*Draft, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	return &Draft{
		id:        uuid.New(),
		userID:    userID,
		prompt:    prompt,
		dietary:   dietary,
		payload:   payload,
		display:   display,
		status:    DraftStatusDraft,
		createdAt: time.Now(),
	}, nil
}

// ReconstructDraft rebuilds a draft from persistence.
func ReconstructDraft(
	id, userID uuid.UUID,
	prompt, dietary string,
	payload RecipePayload,
	display string,
	status DraftStatus,
	createdAt time.Time,
	publishedAt *time.Time,
) *Draft {
	return &Draft{
		id:          id,
		userID:      userID,
		prompt:      prompt,
		dietary:     dietary,
		payload:     payload,
		display:     display,
		status:      status,
		createdAt:   createdAt,
		publishedAt: publishedAt,
	}
}

func (d *Draft) ID() uuid.UUID           { return d.id }
func (d *Draft) UserID() uuid.UUID       { return d.userID }
func (d *Draft) Prompt() string          { return d.prompt }
func (d *Draft) Dietary() string         { return d.dietary }
func (d *Draft) Payload() RecipePayload  { return d.payload }
func (d *Draft) Display() string         { return d.display }
func (d *Draft) Status() DraftStatus     { return d.status }
func (d *Draft) CreatedAt() time.Time    { return d.createdAt }
func (d *Draft) PublishedAt() *time.Time { return d.publishedAt }

// Title is the confirmation label shown to the user. A draft without a
// payload title falls back to a fixed label.
func (d *Draft) Title() string {
	if strings.TrimSpace(d.payload.Title) == "" {
		return "Your recipe"
	}
	return d.payload.Title
}

// PublishPath is the site-relative endpoint that publishes this draft.
func (d *Draft) PublishPath() string {
	return fmt.Sprintf("/api/v1/ai/chef/publish/%s", d.id)
}

// MarkPublished transitions the draft once the recipe exists.
func (d *Draft) MarkPublished() error {
	if d.status == DraftStatusPublished {
		return ErrDraftAlreadyPublished
	}
	if d.status == DraftStatusDiscarded {
		return ErrDraftDiscarded
	}

	d.status = DraftStatusPublished
	now := time.Now()
	d.publishedAt = &now
	return nil
}

// Discard abandons the draft. Published drafts cannot be discarded.
func (d *Draft) Discard() error {
	if d.status == DraftStatusPublished {
		return ErrDraftAlreadyPublished
	}
	d.status = DraftStatusDiscarded
	return nil
}

// OwnedBy reports whether the draft belongs to the given user. Only the
// owner may publish or discard it.
func (d *Draft) OwnedBy(userID uuid.UUID) bool {
	return d.userID == userID
}

const maxContentLength = 8000
