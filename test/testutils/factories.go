// Package testutils provides test data factories for consistent test
// data generation across packages.
package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/recipify/v2/internal/domain/chat"
	"github.com/recipify/v2/internal/domain/recipe"
	"github.com/recipify/v2/internal/domain/user"
)

// Factory generates domain objects with plausible fake data. A fixed
// seed keeps generated data stable within a test run.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with the given seed.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// User builds a persisted-shape user with a fake identity.
func (f *Factory) User() *user.User {
	email := strings.ToLower(fmt.Sprintf("%s.%s@example.com", f.faker.FirstName(), uuid.NewString()[:8]))
	account, err := user.New(email, f.faker.Name(), "$2a$04$"+f.faker.LetterN(22))
	if err != nil {
		panic(err)
	}
	return account
}

// UserWithDietary builds a user with the given dietary preferences.
func (f *Factory) UserWithDietary(prefs ...string) *user.User {
	account := f.User()
	account.SetDietaryPreferences(prefs)
	return account
}

// Prompt returns a plausible chat prompt.
func (f *Factory) Prompt() string {
	return fmt.Sprintf("What can I cook with %s and %s?", f.faker.Vegetable(), f.faker.Fruit())
}

// RecipePayload builds a draft payload with usable content.
func (f *Factory) RecipePayload() chat.RecipePayload {
	return chat.RecipePayload{
		Title:       f.faker.Dinner(),
		Description: f.faker.Sentence(8),
		Ingredients: []string{
			f.faker.Vegetable(),
			f.faker.Fruit(),
			"2 tbsp olive oil",
		},
		Instructions: []string{
			"Prepare the ingredients.",
			"Combine everything in a pan.",
			"Cook until done and season to taste.",
		},
		CookingTime: 20 + f.faker.IntRange(0, 40),
		Servings:    f.faker.IntRange(1, 6),
	}
}

// Draft builds a pending draft owned by the given user.
func (f *Factory) Draft(userID uuid.UUID) *chat.Draft {
	payload := f.RecipePayload()
	draft, err := chat.NewDraft(userID, f.Prompt(), "", payload, "Here is an idea: **"+payload.Title+"**")
	if err != nil {
		panic(err)
	}
	return draft
}

// Message builds a user chat message.
func (f *Factory) Message(userID uuid.UUID) *chat.Message {
	msg, err := chat.NewMessage(userID, chat.RoleUser, f.Prompt())
	if err != nil {
		panic(err)
	}
	return msg
}

// Recipe builds a draft-status recipe with content, ready to publish.
func (f *Factory) Recipe(authorID uuid.UUID) *recipe.Recipe {
	rec, err := recipe.New(f.faker.Dinner(), f.faker.Sentence(10), authorID)
	if err != nil {
		panic(err)
	}
	if err := rec.SetContent(
		[]string{f.faker.Vegetable(), f.faker.Fruit(), "salt"},
		[]string{"Chop everything.", "Cook it.", "Serve warm."},
	); err != nil {
		panic(err)
	}
	if err := rec.SetTiming(time.Duration(f.faker.IntRange(10, 90))*time.Minute, f.faker.IntRange(1, 8)); err != nil {
		panic(err)
	}
	return rec
}

// PublishedRecipe builds a published recipe.
func (f *Factory) PublishedRecipe(authorID uuid.UUID) *recipe.Recipe {
	rec := f.Recipe(authorID)
	if err := rec.Publish(); err != nil {
		panic(err)
	}
	return rec
}
