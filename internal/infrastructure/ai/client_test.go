package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/recipify/v2/internal/ports/outbound"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestSuggestRecipe(t *testing.T) {
	t.Run("EnvelopeWithRecipe_ShouldReturnBoth", func(t *testing.T) {
		srv := completionServer(t, `{
			"reply": "How about a quick carbonara?",
			"recipe": {
				"title": "Carbonara",
				"description": "Roman classic",
				"ingredients": ["spaghetti", "guanciale", "eggs"],
				"instructions": ["boil", "fry", "toss"],
				"cooking_time_minutes": 20,
				"servings": 2
			}
		}`)
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL, Model: "test-model"}, zaptest.NewLogger(t))
		suggestion, err := client.SuggestRecipe(context.Background(), "pasta tonight", outbound.AIConstraints{})

		require.NoError(t, err)
		assert.Equal(t, "How about a quick carbonara?", suggestion.Reply)
		require.NotNil(t, suggestion.Recipe)
		assert.Equal(t, "Carbonara", suggestion.Recipe.Title)
		assert.Equal(t, 20, suggestion.Recipe.CookingTime)
		assert.Equal(t, "test-model", suggestion.Model)
	})

	t.Run("NullRecipe_ShouldReturnReplyOnly", func(t *testing.T) {
		srv := completionServer(t, `{"reply": "Salt it earlier next time.", "recipe": null}`)
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		suggestion, err := client.SuggestRecipe(context.Background(), "why is my soup bland?", outbound.AIConstraints{})

		require.NoError(t, err)
		assert.Equal(t, "Salt it earlier next time.", suggestion.Reply)
		assert.Nil(t, suggestion.Recipe)
	})

	t.Run("ProseOutput_ShouldBecomeReply", func(t *testing.T) {
		srv := completionServer(t, "Just roast them at 200C for 25 minutes.")
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		suggestion, err := client.SuggestRecipe(context.Background(), "carrots?", outbound.AIConstraints{})

		require.NoError(t, err)
		assert.Equal(t, "Just roast them at 200C for 25 minutes.", suggestion.Reply)
		assert.Nil(t, suggestion.Recipe)
	})

	t.Run("RecipeWithoutSteps_ShouldBeDropped", func(t *testing.T) {
		srv := completionServer(t, `{"reply": "Here you go", "recipe": {"title": "Mystery", "ingredients": [], "instructions": []}}`)
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		suggestion, err := client.SuggestRecipe(context.Background(), "food", outbound.AIConstraints{})

		require.NoError(t, err)
		assert.Nil(t, suggestion.Recipe)
	})

	t.Run("ServerError_ShouldReturnError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		_, err := client.SuggestRecipe(context.Background(), "anything", outbound.AIConstraints{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API error 503")
	})

	t.Run("DietaryConstraints_ShouldReachSystemPrompt", func(t *testing.T) {
		var captured chatCompletionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": `{"reply":"ok","recipe":null}`}},
				},
			})
		}))
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		_, err := client.SuggestRecipe(context.Background(), "dinner", outbound.AIConstraints{
			Dietary: []string{"vegan", "nut-free"},
		})

		require.NoError(t, err)
		assert.Contains(t, captured.Messages[0].Content, "vegan, nut-free")
	})
}
