package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIClient talks to the backend JSON API on behalf of the web front
// end.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates an API client for the given base URL.
func NewAPIClient(baseURL string, logger *zap.Logger) *APIClient {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// AuthResponse is the data member of a register or login reply.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse is the account payload in API replies.
type UserResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	DietaryPreferences []string `json:"dietary_preferences"`
}

// RecipeResponse is the recipe payload in API replies.
type RecipeResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	CookingTimeMinutes int      `json:"cooking_time_minutes"`
	Servings           int      `json:"servings"`
	AIGenerated        bool     `json:"ai_generated"`
	URL                string   `json:"url"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Login authenticates a user and returns the token payload.
func (c *APIClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var auth AuthResponse
	if err := c.postEnvelope(ctx, "/api/v1/auth/login", "", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Register creates an account and returns the token payload.
func (c *APIClient) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var auth AuthResponse
	if err := c.postEnvelope(ctx, "/api/v1/auth/register", "", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// GetRecipes fetches published recipes.
func (c *APIClient) GetRecipes(ctx context.Context, token string) ([]RecipeResponse, error) {
	var data struct {
		Recipes []RecipeResponse `json:"recipes"`
	}
	if err := c.getEnvelope(ctx, "/api/v1/recipes", token, &data); err != nil {
		return nil, err
	}
	return data.Recipes, nil
}

// GetRecipe fetches one recipe by ID.
func (c *APIClient) GetRecipe(ctx context.Context, token, recipeID string) (*RecipeResponse, error) {
	var rec RecipeResponse
	if err := c.getEnvelope(ctx, "/api/v1/recipes/"+recipeID, token, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SendChatMessage posts one chat turn and returns the raw reply body.
// The caller normalizes the body with the markup parser, so transport
// success with an error payload is not treated as a client error here.
func (c *APIClient) SendChatMessage(ctx context.Context, token, prompt string, dietary []string) ([]byte, error) {
	body := map[string]interface{}{
		"prompt":               prompt,
		"dietary_requirements": dietary,
	}
	return c.postRaw(ctx, "/api/v1/ai/chef/message", token, body)
}

// PublishDraft publishes a draft and returns the raw reply body.
func (c *APIClient) PublishDraft(ctx context.Context, token, draftID string) ([]byte, error) {
	return c.postRaw(ctx, "/api/v1/ai/chef/publish/"+draftID, token, nil)
}

// GetChatHistory fetches the user's recent conversation.
func (c *APIClient) GetChatHistory(ctx context.Context, token string) ([]ChatMessageResponse, error) {
	var messages []ChatMessageResponse
	if err := c.getEnvelope(ctx, "/api/v1/ai/chef/history", token, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// ChatMessageResponse is one transcript entry in API replies.
type ChatMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VerifyConnection checks whether the backend is reachable.
func (c *APIClient) VerifyConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend unreachable", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}

func (c *APIClient) postEnvelope(ctx context.Context, path, token string, body, out interface{}) error {
	raw, err := c.postRaw(ctx, path, token, body)
	if err != nil {
		return err
	}
	return decodeEnvelope(raw, out)
}

func (c *APIClient) getEnvelope(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token)

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeEnvelope(raw, out)
}

// postRaw performs a POST and returns the response body regardless of
// status code. Only transport failures surface as errors.
func (c *APIClient) postRaw(ctx context.Context, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token)

	return c.do(req)
}

func (c *APIClient) do(req *http.Request) ([]byte, error) {
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return raw, nil
}

func (c *APIClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeEnvelope(raw []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("%s", env.Error)
		}
		return fmt.Errorf("request rejected")
	}
	if out == nil || env.Data == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
