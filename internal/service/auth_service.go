package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/validation"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users repository.UserRepository
	cfg   *config.Config
	log   zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, cfg *config.Config, log zerolog.Logger) *authService {
	return &authService{
		users: users,
		cfg:   cfg,
		log:   log.With().Str("service", "auth").Logger(),
	}
}

// Authenticate checks a login attempt against the credential store. Every
// failure mode, including a correct password on a non-admin account, comes
// back as ErrInvalidCredentials so the login form leaks nothing.
func (s *authService) Authenticate(ctx context.Context, input validation.LoginInput) (*models.User, error) {
	if input.Validate() != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.log.Warn().Str("username", input.Username).Msg("Login attempt for unknown username")
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.log.Warn().Str("username", input.Username).Msg("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsAdmin {
		s.log.Warn().Str("username", input.Username).Msg("Login attempt by non-admin account")
		return nil, ErrInvalidCredentials
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Administrator logged in")
	return user, nil
}

// Bootstrap creates the first administrator account when the credential
// store is empty, using the configured credentials
func (s *authService) Bootstrap(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if s.cfg.Admin.Password == config.DefaultAdminPassword {
		s.log.Warn().Msg("Bootstrapping with the default administrator password; set ADMIN_USER and ADMIN_PASS")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &models.User{
		Username:     s.cfg.Admin.Username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap administrator: %w", err)
	}

	s.log.Info().Str("username", admin.Username).Msg("Bootstrap administrator created")
	return nil
}
