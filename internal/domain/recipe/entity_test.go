package recipe

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipe(t *testing.T) {
	t.Run("ValidRecipe_ShouldCreateInDraftStatus", func(t *testing.T) {
		authorID := uuid.New()

		r, err := New("Spaghetti Carbonara", "A classic Italian pasta dish", authorID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, "Spaghetti Carbonara", r.Title())
		assert.Equal(t, authorID, r.AuthorID())
		assert.Equal(t, StatusDraft, r.Status())
		assert.False(t, r.IsAIGenerated())
	})

	t.Run("ShortTitle_ShouldReturnError", func(t *testing.T) {
		r, err := New("AB", "desc", uuid.New())

		assert.Nil(t, r)
		assert.Equal(t, ErrTitleTooShort, err)
	})

	t.Run("LongTitle_ShouldReturnError", func(t *testing.T) {
		r, err := New(strings.Repeat("x", 201), "desc", uuid.New())

		assert.Nil(t, r)
		assert.Equal(t, ErrTitleTooLong, err)
	})

	t.Run("LongDescription_ShouldReturnError", func(t *testing.T) {
		r, err := New("Valid Title", strings.Repeat("x", 2001), uuid.New())

		assert.Nil(t, r)
		assert.Equal(t, ErrDescriptionTooLong, err)
	})
}

func TestRecipeLifecycle(t *testing.T) {
	newComplete := func(t *testing.T) *Recipe {
		r, err := New("Chicken Stir-Fry", "Quick and healthy", uuid.New())
		require.NoError(t, err)
		require.NoError(t, r.SetContent([]string{"chicken", "vegetables"}, []string{"slice", "fry"}))
		require.NoError(t, r.SetTiming(20*time.Minute, 2))
		return r
	}

	t.Run("Publish_ShouldSetStatusAndTimestamp", func(t *testing.T) {
		r := newComplete(t)

		require.NoError(t, r.Publish())
		assert.Equal(t, StatusPublished, r.Status())
		require.NotNil(t, r.PublishedAt())
	})

	t.Run("PublishTwice_ShouldReturnError", func(t *testing.T) {
		r := newComplete(t)
		require.NoError(t, r.Publish())

		assert.Equal(t, ErrAlreadyPublished, r.Publish())
	})

	t.Run("PublishWithoutContent_ShouldReturnError", func(t *testing.T) {
		r, err := New("Empty Recipe", "", uuid.New())
		require.NoError(t, err)

		assert.Equal(t, ErrIncompleteRecipe, r.Publish())
	})

	t.Run("PublishArchived_ShouldReturnError", func(t *testing.T) {
		r := newComplete(t)
		r.Archive()

		assert.Equal(t, ErrRecipeArchived, r.Publish())
	})

	t.Run("SetContent_ShouldRejectEmptyLists", func(t *testing.T) {
		r := newComplete(t)

		assert.Equal(t, ErrNoIngredients, r.SetContent(nil, []string{"x"}))
		assert.Equal(t, ErrNoInstructions, r.SetContent([]string{"x"}, nil))
	})

	t.Run("SetTiming_ShouldRejectZeroServings", func(t *testing.T) {
		r := newComplete(t)

		assert.Equal(t, ErrInvalidServings, r.SetTiming(time.Minute, 0))
	})

	t.Run("MarkAIGenerated_ShouldRecordProvenance", func(t *testing.T) {
		r := newComplete(t)
		r.MarkAIGenerated("chicken dinner", "gpt-4o-mini")

		assert.True(t, r.IsAIGenerated())
		assert.Equal(t, "chicken dinner", r.AIPrompt())
		assert.Equal(t, "gpt-4o-mini", r.AIModel())
	})

	t.Run("URLPath_ShouldContainID", func(t *testing.T) {
		r := newComplete(t)
		assert.Contains(t, r.URLPath(), r.ID().String())
	})
}
