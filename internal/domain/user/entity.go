// Package user contains the user aggregate. Accounts are deliberately
// thin: the platform needs enough identity to own chat messages,
// drafts, and recipes, plus the dietary preferences the AI chef folds
// into prompts.
package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the account aggregate root.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	dietary      []string
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a user with a validated email. The password hash is
// produced by the application layer, not here.
func New(email, name, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if passwordHash == "" {
		return nil, ErrEmptyPasswordHash
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a user from persisted state without validation.
func Reconstruct(
	id uuid.UUID,
	email, name, passwordHash string,
	dietary []string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		dietary:      dietary,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// DietaryPreferences returns the stored preferences, e.g. "vegetarian"
// or "gluten-free". The slice is a copy.
func (u *User) DietaryPreferences() []string {
	out := make([]string, len(u.dietary))
	copy(out, u.dietary)
	return out
}

// SetDietaryPreferences replaces the stored preferences, dropping
// blank entries.
func (u *User) SetDietaryPreferences(prefs []string) {
	cleaned := make([]string, 0, len(prefs))
	for _, p := range prefs {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	u.dietary = cleaned
	u.updatedAt = time.Now()
}

// Rename updates the display name.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.name = name
	u.updatedAt = time.Now()
	return nil
}
