package markup

import (
	"fmt"
	"strings"
	"time"
)

// Chat roles. Anything else gets non-user styling but its role string
// still rides along (escaped) as a CSS class token.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultDraftTitle labels a draft whose title is missing.
const DefaultDraftTitle = "Your recipe"

// Builder assembles transcript bubbles and the publish call-to-action.
type Builder struct {
	renderer *Renderer
	now      func() time.Time
}

// NewBuilder creates a view builder backed by the given renderer.
func NewBuilder(renderer *Renderer) *Builder {
	return &Builder{
		renderer: renderer,
		now:      time.Now,
	}
}

// BuildMessageMarkup produces a self-contained message bubble. User
// content is never rendered as HTML: only assistant messages with
// allowHTML set go through the content renderer, everything else is
// escaped verbatim.
func (b *Builder) BuildMessageMarkup(role, content string, allowHTML bool) string {
	var body string
	if role == RoleAssistant && allowHTML {
		body = b.renderer.RenderAssistantContent(content)
	} else {
		body = Escape(content)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="chat-message %s-message">`, Escape(role))
	if role == RoleAssistant {
		sb.WriteString(`<div class="message-author">AI Chef</div>`)
	}
	fmt.Fprintf(&sb, `<div class="message-content">%s</div>`, body)
	fmt.Fprintf(&sb, `<div class="message-time">%s</div>`, Escape(b.now().Format("3:04 PM")))
	sb.WriteString(`</div>`)

	return sb.String()
}

// BuildPublishMarkup emits the publish form for an actionable draft,
// or the empty string when the draft is absent or missing its id or
// publish URL. The form posts to the fragment endpoint via HTMX and
// falls back to a full submission against the publish URL when
// scripting is unavailable. The CSRF token is escaped even though
// callers are expected to pass an opaque value.
func (b *Builder) BuildPublishMarkup(draft *Draft, csrfToken string) string {
	if !draft.Actionable() {
		return ""
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = DefaultDraftTitle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<form method="post" action="%s" class="publish-form"`, Escape(draft.PublishURL))
	fmt.Fprintf(&sb, ` hx-post="/htmx/ai/chef/publish/%s" hx-target="#chat-transcript" hx-swap="beforeend">`, Escape(string(draft.ID)))
	fmt.Fprintf(&sb, `<input type="hidden" name="csrfmiddlewaretoken" value="%s">`, Escape(csrfToken))
	fmt.Fprintf(&sb, `<span class="publish-label">Save %s to your recipes?</span>`, Escape(title))
	sb.WriteString(`<button type="submit" class="publish-button">Publish recipe</button>`)
	sb.WriteString(`</form>`)

	return sb.String()
}
