package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/recipify/v2/internal/domain/user"
)

// RegisterCommand carries the input for creating an account.
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// LoginCommand carries the input for authenticating a user.
type LoginCommand struct {
	Email    string
	Password string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User        *user.User
	AccessToken string
	ExpiresIn   int64
}

// UserService defines account management use cases.
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*user.User, error)
	UpdateDietaryPreferences(ctx context.Context, userID uuid.UUID, preferences []string) (*user.User, error)
}
