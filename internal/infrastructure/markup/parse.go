package markup

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ErrInvalidResponse is the user-facing text for a reply body that is
// absent or not a JSON object.
const ErrInvalidResponse = "Invalid response"

// Message is the assistant message payload of a chat reply.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Draft is the draft recipe payload of a chat reply.
type Draft struct {
	ID         Identifier `json:"id"`
	Title      string     `json:"title"`
	PublishURL string     `json:"publish_url"`
}

// Actionable reports whether the draft can be rendered as a publish
// affordance. Both the identifier and the publish URL must be present.
func (d *Draft) Actionable() bool {
	return d != nil && d.ID != "" && d.PublishURL != ""
}

// Identifier is a draft identifier on the wire. The backend emits
// string IDs but older replies carried integer primary keys, so both
// decode; anything else leaves the identifier empty.
type Identifier string

func (i *Identifier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = Identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*i = Identifier(n.String())
	}
	return nil
}

// ParsedResponse is the normalized form of a chat or publish reply.
// Success is false iff the body was not an object or carried a truthy
// error member; Message and Draft are each independently optional.
type ParsedResponse struct {
	Success bool
	Message *Message
	Draft   *Draft
	Error   string
}

// ParseResponse validates and normalizes a raw reply body. It never
// fails: malformed input yields Success=false with a generic error.
// The shapes of message and draft are not validated beyond decoding;
// a sub-object that does not decode is treated as absent and the view
// builders defend against missing fields.
func ParseResponse(raw []byte) ParsedResponse {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ParsedResponse{Error: ErrInvalidResponse}
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &body); err != nil || body == nil {
		return ParsedResponse{Error: ErrInvalidResponse}
	}

	if rawErr, ok := body["error"]; ok {
		if text, truthy := errorText(rawErr); truthy {
			return ParsedResponse{Error: text}
		}
	}

	parsed := ParsedResponse{Success: true}

	// Decoding into pointers keeps an explicit JSON null absent rather
	// than materializing a zero value.
	if rawMsg, ok := body["message"]; ok {
		var msg *Message
		if err := json.Unmarshal(rawMsg, &msg); err == nil {
			parsed.Message = msg
		}
	}

	if rawDraft, ok := body["draft"]; ok {
		var draft *Draft
		if err := json.Unmarshal(rawDraft, &draft); err == nil {
			parsed.Draft = draft
		}
	}

	return parsed
}

// errorText reports whether the error member is truthy and, if so, its
// user-facing text. Strings are surfaced verbatim; other truthy values
// are stringified.
func errorText(raw json.RawMessage) (string, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}

	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		return strconv.FormatBool(t), t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t != 0
	default:
		// Objects and arrays are truthy; surface the raw JSON.
		return string(raw), true
	}
}
