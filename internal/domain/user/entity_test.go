package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("ValidUser_ShouldNormalizeEmail", func(t *testing.T) {
		u, err := New("  Alice@Example.COM ", "Alice", "hashed")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email())
		assert.Equal(t, "Alice", u.Name())
	})

	t.Run("InvalidEmail_ShouldReturnError", func(t *testing.T) {
		u, err := New("not-an-email", "Alice", "hashed")

		assert.Nil(t, u)
		assert.Equal(t, ErrInvalidEmail, err)
	})

	t.Run("EmptyName_ShouldReturnError", func(t *testing.T) {
		_, err := New("alice@example.com", "   ", "hashed")
		assert.Equal(t, ErrEmptyName, err)
	})

	t.Run("EmptyPasswordHash_ShouldReturnError", func(t *testing.T) {
		_, err := New("alice@example.com", "Alice", "")
		assert.Equal(t, ErrEmptyPasswordHash, err)
	})
}

func TestDietaryPreferences(t *testing.T) {
	t.Run("SetPreferences_ShouldDropBlankEntries", func(t *testing.T) {
		u, err := New("alice@example.com", "Alice", "hashed")
		require.NoError(t, err)

		u.SetDietaryPreferences([]string{"vegetarian", "  ", "gluten-free", ""})

		assert.Equal(t, []string{"vegetarian", "gluten-free"}, u.DietaryPreferences())
	})

	t.Run("Preferences_ShouldReturnCopy", func(t *testing.T) {
		u, err := New("alice@example.com", "Alice", "hashed")
		require.NoError(t, err)
		u.SetDietaryPreferences([]string{"vegan"})

		got := u.DietaryPreferences()
		got[0] = "mutated"

		assert.Equal(t, []string{"vegan"}, u.DietaryPreferences())
	})
}
