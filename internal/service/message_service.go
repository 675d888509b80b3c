package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/validation"
)

// messageService is the concrete implementation of MessageService
type messageService struct {
	messages repository.MessageRepository
	log      zerolog.Logger
}

// newMessageService creates a new MessageService
func newMessageService(messages repository.MessageRepository, log zerolog.Logger) *messageService {
	return &messageService{
		messages: messages,
		log:      log.With().Str("service", "message").Logger(),
	}
}

// Submit validates and persists a public contact-form submission
func (s *messageService) Submit(ctx context.Context, input validation.ContactInput) (*models.ContactMessage, error) {
	if err := input.Validate().OrNil(); err != nil {
		return nil, err
	}

	message := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
		Read:    false,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	s.log.Info().Int64("id", message.ID).Msg("Contact message received")
	return message, nil
}

// List returns all messages, newest first
func (s *messageService) List(ctx context.Context) ([]*models.ContactMessage, error) {
	return s.messages.List(ctx)
}

// MarkRead flips the read flag on a message
func (s *messageService) MarkRead(ctx context.Context, id int64) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}
	if message == nil {
		return ErrNotFound
	}
	if err := s.messages.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// Delete removes a message
func (s *messageService) Delete(ctx context.Context, id int64) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}
	if message == nil {
		return ErrNotFound
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	s.log.Info().Int64("id", id).Msg("Contact message deleted")
	return nil
}

// Count returns the total number of messages
func (s *messageService) Count(ctx context.Context) (int, error) {
	return s.messages.Count(ctx)
}
