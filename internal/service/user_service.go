package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/validation"
)

// userService is the concrete implementation of UserService
type userService struct {
	users repository.UserRepository
	log   zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(users repository.UserRepository, log zerolog.Logger) *userService {
	return &userService{
		users: users,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// List returns all administrator accounts
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Get retrieves one account or ErrNotFound
func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create adds a new account with a bcrypt-hashed password
func (s *userService) Create(ctx context.Context, input validation.UserInput) (*models.User, error) {
	input.RequirePassword = true
	if err := input.Validate().OrNil(); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, input.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	s.log.Info().Int64("id", user.ID).Str("username", user.Username).Msg("User created")
	return user, nil
}

// Update changes username, admin flag and optionally the password. Demoting
// the last remaining administrator is rejected.
func (s *userService) Update(ctx context.Context, id int64, input validation.UserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	input.RequirePassword = false
	if err := input.Validate().OrNil(); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, input.Username, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	if user.IsAdmin && !input.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count administrators: %w", err)
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	user.Username = input.Username
	user.IsAdmin = input.IsAdmin
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist user update: %w", err)
	}

	s.log.Info().Int64("id", user.ID).Msg("User updated")
	return user, nil
}

// Delete removes an account. Self-deletion and deleting the last remaining
// administrator are rejected.
func (s *userService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrSelfDelete
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	if user.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count administrators: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info().Int64("id", id).Msg("User deleted")
	return nil
}
