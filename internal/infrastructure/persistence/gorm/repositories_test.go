package gorm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/domain/user"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *user.User {
	u, err := user.New(fmt.Sprintf("%s@example.com", uuid.NewString()[:8]), "Test Cook", "hashed")
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestChatMessageRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByUserID_ShouldReturnChronologicalOrder", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewChatMessageRepository(db)
		owner := createTestUser(t, db)

		for i := 0; i < 3; i++ {
			msg, err := chat.NewMessage(owner.ID(), chat.RoleUser, fmt.Sprintf("message %d", i))
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, msg))
			time.Sleep(5 * time.Millisecond)
		}

		messages, err := repo.FindByUserID(ctx, owner.ID(), 10)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "message 0", messages[0].Content())
		assert.Equal(t, "message 2", messages[2].Content())
	})

	t.Run("FindByUserID_ShouldKeepMostRecentWhenLimited", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewChatMessageRepository(db)
		owner := createTestUser(t, db)

		for i := 0; i < 5; i++ {
			msg, err := chat.NewMessage(owner.ID(), chat.RoleUser, fmt.Sprintf("message %d", i))
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, msg))
			time.Sleep(5 * time.Millisecond)
		}

		messages, err := repo.FindByUserID(ctx, owner.ID(), 2)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "message 3", messages[0].Content())
		assert.Equal(t, "message 4", messages[1].Content())
	})

	t.Run("DraftReference_ShouldSurviveRoundTrip", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewChatMessageRepository(db)
		owner := createTestUser(t, db)

		draftID := uuid.New()
		msg, err := chat.NewMessage(owner.ID(), chat.RoleAssistant, "Here is a soup.")
		require.NoError(t, err)
		msg.AttachDraft(draftID)
		require.NoError(t, repo.Create(ctx, msg))

		messages, err := repo.FindByUserID(ctx, owner.ID(), 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		require.NotNil(t, messages[0].DraftID())
		assert.Equal(t, draftID, *messages[0].DraftID())
	})

	t.Run("DeleteByUserID_ShouldClearTranscript", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewChatMessageRepository(db)
		owner := createTestUser(t, db)

		msg, err := chat.NewMessage(owner.ID(), chat.RoleUser, "hello")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, msg))
		require.NoError(t, repo.DeleteByUserID(ctx, owner.ID()))

		messages, err := repo.FindByUserID(ctx, owner.ID(), 10)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}

func TestDraftRepository(t *testing.T) {
	ctx := context.Background()

	newDraft := func(t *testing.T, owner uuid.UUID) *chat.Draft {
		draft, err := chat.NewDraft(owner, "soup ideas", "vegetarian", chat.RecipePayload{
			Title:        "Lentil Soup",
			Description:  "Hearty and cheap",
			Ingredients:  []string{"lentils", "carrots"},
			Instructions: []string{"simmer", "season"},
			CookingTime:  40,
			Servings:     4,
		}, "How about lentil soup?")
		require.NoError(t, err)
		return draft
	}

	t.Run("CreateThenFind_ShouldRoundTripPayload", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)
		owner := createTestUser(t, db)

		draft := newDraft(t, owner.ID())
		require.NoError(t, repo.Create(ctx, draft))

		found, err := repo.FindByID(ctx, draft.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Lentil Soup", found.Payload().Title)
		assert.Equal(t, []string{"lentils", "carrots"}, found.Payload().Ingredients)
		assert.Equal(t, chat.DraftStatusDraft, found.Status())
		assert.Equal(t, "vegetarian", found.Dietary())
	})

	t.Run("UnknownID_ShouldReturnNilWithoutError", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)

		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Update_ShouldPersistPublishedStatus", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)
		owner := createTestUser(t, db)

		draft := newDraft(t, owner.ID())
		require.NoError(t, repo.Create(ctx, draft))
		require.NoError(t, draft.MarkPublished())
		require.NoError(t, repo.Update(ctx, draft))

		found, err := repo.FindByID(ctx, draft.ID())
		require.NoError(t, err)
		assert.Equal(t, chat.DraftStatusPublished, found.Status())
		assert.NotNil(t, found.PublishedAt())
	})

	t.Run("FindPending_ShouldSkipPublishedDrafts", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)
		owner := createTestUser(t, db)

		pending := newDraft(t, owner.ID())
		published := newDraft(t, owner.ID())
		require.NoError(t, repo.Create(ctx, pending))
		require.NoError(t, repo.Create(ctx, published))
		require.NoError(t, published.MarkPublished())
		require.NoError(t, repo.Update(ctx, published))

		drafts, err := repo.FindPendingByUserID(ctx, owner.ID())
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, pending.ID(), drafts[0].ID())
	})
}

func TestRecipeRepository(t *testing.T) {
	ctx := context.Background()

	newRecipe := func(t *testing.T, authorID uuid.UUID) *recipe.Recipe {
		r, err := recipe.New("Roast Chicken", "Sunday classic", authorID)
		require.NoError(t, err)
		require.NoError(t, r.SetContent([]string{"chicken", "butter"}, []string{"roast", "rest"}))
		require.NoError(t, r.SetTiming(90*time.Minute, 4))
		return r
	}

	t.Run("CreateThenFind_ShouldRoundTrip", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewRecipeRepository(db)
		author := createTestUser(t, db)

		r := newRecipe(t, author.ID())
		r.MarkAIGenerated("roast dinner", "llama3.2:3b")
		require.NoError(t, repo.Create(ctx, r))

		found, err := repo.FindByID(ctx, r.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Roast Chicken", found.Title())
		assert.Equal(t, 90*time.Minute, found.CookingTime())
		assert.True(t, found.IsAIGenerated())
		assert.Equal(t, "llama3.2:3b", found.AIModel())
	})

	t.Run("FindPublished_ShouldExcludeDrafts", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewRecipeRepository(db)
		author := createTestUser(t, db)

		draft := newRecipe(t, author.ID())
		published := newRecipe(t, author.ID())
		require.NoError(t, published.Publish())
		require.NoError(t, repo.Create(ctx, draft))
		require.NoError(t, repo.Create(ctx, published))

		recipes, total, err := repo.FindPublished(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, recipes, 1)
		assert.Equal(t, published.ID(), recipes[0].ID())
	})

	t.Run("FindByAuthorID_ShouldCountAndPaginate", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewRecipeRepository(db)
		author := createTestUser(t, db)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(ctx, newRecipe(t, author.ID())))
		}

		recipes, total, err := repo.FindByAuthorID(ctx, author.ID(), 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, recipes, 2)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateThenFindByEmail_ShouldRoundTripDietary", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		u, err := user.New("bob@example.com", "Bob", "hashed")
		require.NoError(t, err)
		u.SetDietaryPreferences([]string{"vegan"})
		require.NoError(t, repo.Create(ctx, u))

		found, err := repo.FindByEmail(ctx, "Bob@Example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, u.ID(), found.ID())
		assert.Equal(t, []string{"vegan"}, found.DietaryPreferences())
	})

	t.Run("ExistsByEmail_ShouldReportPresence", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		exists, err := repo.ExistsByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		u, err := user.New("carol@example.com", "Carol", "hashed")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))

		exists, err = repo.ExistsByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("DuplicateEmail_ShouldFailUniqueIndex", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		first, err := user.New("dave@example.com", "Dave", "hashed")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := user.New("dave@example.com", "Dave Again", "hashed")
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, second))
	})
}
