// Package ai provides the AI chef backend over any OpenAI-compatible
// chat completion API, including a local Ollama instance.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/ports/outbound"
)

// Config holds the AI client settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements the AIService port using a chat completion API.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a new AI client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2:3b"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("ai-client"),
	}
}

// Chat completion API structures

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// suggestionEnvelope is the JSON the model is asked to produce.
// Recipe is null when the user's message did not call for a dish.
type suggestionEnvelope struct {
	Reply  string              `json:"reply"`
	Recipe *chat.RecipePayload `json:"recipe"`
}

const systemPrompt = `You are an expert chef helping a home cook decide what to make.

CRITICAL: respond with ONLY a valid JSON object in this exact format, no markdown and no text outside the JSON:
{
  "reply": "Conversational answer shown to the user",
  "recipe": {
    "title": "Recipe Name",
    "description": "Brief description of the dish",
    "ingredients": ["2 tbsp olive oil", "1 lb chicken breast"],
    "instructions": ["Step 1...", "Step 2..."],
    "cooking_time_minutes": 30,
    "servings": 4
  }
}

Set "recipe" to null when the user is only asking a question and does not need a full recipe.`

// SuggestRecipe asks the model for a reply and an optional recipe.
func (c *Client) SuggestRecipe(ctx context.Context, prompt string, constraints outbound.AIConstraints) (*outbound.AISuggestion, error) {
	system := systemPrompt
	if len(constraints.Dietary) > 0 {
		system += fmt.Sprintf("\n\nDietary restrictions: %s", strings.Join(constraints.Dietary, ", "))
	}
	if constraints.Servings > 0 {
		system += fmt.Sprintf("\nServings: %d", constraints.Servings)
	}
	if constraints.MaxTime > 0 {
		system += fmt.Sprintf("\nMaximum total cooking time: %d minutes", int(constraints.MaxTime.Minutes()))
	}

	content, err := c.complete(ctx, system, prompt, constraints.Temperature)
	if err != nil {
		return nil, err
	}

	suggestion := c.parseSuggestion(content)
	suggestion.Model = c.cfg.Model
	return suggestion, nil
}

// complete performs the chat completion call.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}

	reqBody := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("Chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseSuggestion extracts the envelope from the model output. Models
// sometimes wrap the JSON in prose or code fences, so the parse is
// lenient: when no envelope can be recovered the whole output becomes
// the conversational reply.
func (c *Client) parseSuggestion(content string) *outbound.AISuggestion {
	trimmed := strings.TrimSpace(content)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return &outbound.AISuggestion{Reply: trimmed}
	}

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &envelope); err != nil {
		c.logger.Warn("Model output was not a valid suggestion envelope", zap.Error(err))
		return &outbound.AISuggestion{Reply: trimmed}
	}

	if strings.TrimSpace(envelope.Reply) == "" && envelope.Recipe == nil {
		return &outbound.AISuggestion{Reply: trimmed}
	}

	// A recipe without ingredients or steps is not actionable.
	if envelope.Recipe != nil &&
		(len(envelope.Recipe.Ingredients) == 0 || len(envelope.Recipe.Instructions) == 0) {
		envelope.Recipe = nil
	}

	return &outbound.AISuggestion{
		Reply:  envelope.Reply,
		Recipe: envelope.Recipe,
	}
}
