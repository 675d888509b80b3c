package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/noticiero/cms/internal/database"
	"github.com/noticiero/cms/internal/models"
)

// messageRepo is the concrete implementation of MessageRepository
type messageRepo struct {
	db *database.DB
}

// NewMessageRepo creates a new contact message repository
func NewMessageRepo(db *database.DB) MessageRepository {
	return &messageRepo{db: db}
}

// Create inserts a new contact message and fills in its generated ID
func (r *messageRepo) Create(ctx context.Context, message *models.ContactMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO contact_messages (name, email, subject, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		message.Name, message.Email, message.Subject, message.Message,
		message.Read, message.CreatedAt,
	).Scan(&message.ID)
}

// GetByID retrieves a message by ID, returning nil when absent
func (r *messageRepo) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, read, created_at
		FROM contact_messages WHERE id = $1
	`

	var message models.ContactMessage
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID, &message.Name, &message.Email, &message.Subject,
		&message.Message, &message.Read, &message.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// List retrieves all messages, newest first
func (r *messageRepo) List(ctx context.Context) ([]*models.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, read, created_at
		FROM contact_messages ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ContactMessage
	for rows.Next() {
		var message models.ContactMessage
		err := rows.Scan(
			&message.ID, &message.Name, &message.Email, &message.Subject,
			&message.Message, &message.Read, &message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, rows.Err()
}

// MarkRead sets the read flag on a message
func (r *messageRepo) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a message row
func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Count returns the total number of messages
func (r *messageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&count)
	return count, err
}
