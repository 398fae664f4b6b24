// Package user provides the application layer for account management.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipify/v2/internal/domain/user"
	"github.com/recipify/v2/internal/ports/inbound"
	"github.com/recipify/v2/internal/ports/outbound"
	"github.com/recipify/v2/pkg/errors"
)

// Authenticator covers the credential primitives the service needs.
// The security package's AuthService satisfies it.
type Authenticator interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
}

// UserService implements account management use cases.
type UserService struct {
	userRepo outbound.UserRepository
	auth     Authenticator
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo outbound.UserRepository,
	auth Authenticator,
	tokenTTL time.Duration,
	logger *zap.Logger,
) inbound.UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		tokenTTL: tokenTTL,
		logger:   logger.Named("user-service"),
	}
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewDatabaseError("check email", err)
	}
	if exists {
		return nil, errors.NewEmailAlreadyExistsError(email)
	}

	hash, err := s.auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	account, err := user.New(email, cmd.Name, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", account.ID().String()),
		zap.String("email", account.Email()),
	)

	return s.issueToken(account)
}

// Login authenticates a user by email and password.
func (s *UserService) Login(ctx context.Context, cmd inbound.LoginCommand) (*inbound.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if account == nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := s.auth.VerifyPassword(account.PasswordHash(), cmd.Password); err != nil {
		s.logger.Debug("password verification failed", zap.String("email", email))
		return nil, errors.NewInvalidCredentialsError()
	}

	return s.issueToken(account)
}

// Profile returns the user's account.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	account, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if account == nil {
		return nil, errors.NewUserNotFoundError(userID.String())
	}

	return account, nil
}

// UpdateDietaryPreferences replaces the user's dietary preferences.
func (s *UserService) UpdateDietaryPreferences(ctx context.Context, userID uuid.UUID, preferences []string) (*user.User, error) {
	account, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	account.SetDietaryPreferences(preferences)
	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, errors.NewDatabaseError("update user", err)
	}

	return account, nil
}

func (s *UserService) issueToken(account *user.User) (*inbound.AuthResult, error) {
	token, err := s.auth.GenerateAccessToken(account.ID(), account.Email())
	if err != nil {
		return nil, errors.NewInternalError("failed to issue token")
	}

	return &inbound.AuthResult{
		User:        account,
		AccessToken: token,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
