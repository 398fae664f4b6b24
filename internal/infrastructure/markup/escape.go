// Package markup builds the safe HTML fragments for the AI Chef chat
// transcript. Everything that reaches the page goes through the escaper
// first; the renderer then re-introduces a fixed allowlist of tags by
// substitution over the already-escaped text.
package markup

import "strings"

// escaper rewrites the five HTML-significant characters in a single pass,
// so entities produced by the replacement are never re-escaped.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape converts arbitrary text into HTML-safe text. Escaping is not
// idempotent (a second pass double-escapes ampersands); callers escape
// exactly once per render path.
func Escape(s string) string {
	return escaper.Replace(s)
}

// EscapeValue escapes a value of unknown type. Anything that is not a
// string, including nil, yields the empty string.
func EscapeValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Escape(s)
}
