package markup

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Renderer produces limited safe HTML from assistant-authored text.
// It is never applied to user-authored content; that is always escaped
// and inserted verbatim.
type Renderer struct {
	logger       *zap.Logger
	anchorQuot   *regexp.Regexp
	anchorApos   *regexp.Regexp
	boldSpan     *regexp.Regexp
	italicSpan   *regexp.Regexp
	safePrefixes []string
}

// NewRenderer creates a renderer with the anchor and markdown patterns
// precompiled.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{
		logger: logger,
		// The input is escaped before these run, so anchors arrive as
		// &lt;a ... href=&quot;URL&quot;&gt;LABEL&lt;/a&gt;. Both quoting
		// styles upstream are tolerated.
		anchorQuot: regexp.MustCompile(`(?is)&lt;a\s.*?href=&quot;(.*?)&quot;.*?&gt;(.*?)&lt;/a&gt;`),
		anchorApos: regexp.MustCompile(`(?is)&lt;a\s.*?href=&#39;(.*?)&#39;.*?&gt;(.*?)&lt;/a&gt;`),
		boldSpan:   regexp.MustCompile(`(?s)\*\*(.+?)\*\*`),
		// Italic only fires after start-of-string, whitespace, '>' or '_',
		// and the span itself may not contain '*' or a newline.
		italicSpan:   regexp.MustCompile(`(^|[\s>_])\*([^*\n]+)\*`),
		safePrefixes: []string{"http://", "https://", "/"},
	}
}

// RenderAssistantContent renders assistant text as HTML limited to
// <a>, <strong> and <em>. The whole input is escaped first; link
// hydration runs before the markdown passes so hrefs are never matched
// by the bold/italic substitutions.
func (r *Renderer) RenderAssistantContent(text string) string {
	out := Escape(text)
	out = r.anchorQuot.ReplaceAllStringFunc(out, r.hydrateAnchor(r.anchorQuot))
	out = r.anchorApos.ReplaceAllStringFunc(out, r.hydrateAnchor(r.anchorApos))
	out = r.boldSpan.ReplaceAllString(out, "<strong>$1</strong>")
	out = r.italicSpan.ReplaceAllString(out, "$1<em>$2</em>")
	return out
}

// hydrateAnchor turns one escaped anchor back into a live <a> tag when
// its URL is safe, and into its bare label when it is not.
func (r *Renderer) hydrateAnchor(pattern *regexp.Regexp) func(string) string {
	return func(match string) string {
		parts := pattern.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}

		url := strings.TrimSpace(parts[1])
		label := parts[2]

		if !r.safeURL(url) {
			r.logger.Warn("Dropping unsafe link from assistant content",
				zap.String("url", url),
			)
			return label
		}

		// The URL is escaped again on insertion; the label was escaped in
		// the initial pass and must not be escaped twice.
		return fmt.Sprintf(`<a href="%s" class="chat-link">%s</a>`, Escape(url), label)
	}
}

// safeURL accepts http, https and site-relative URLs. The javascript:
// and data: schemes are rejected before the accept list is consulted;
// reject takes priority.
func (r *Renderer) safeURL(url string) bool {
	lower := strings.ToLower(url)

	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") {
		return false
	}

	for _, prefix := range r.safePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return false
}
