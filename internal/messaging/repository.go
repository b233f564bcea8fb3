// internal/messaging/repository.go

package messaging

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	GetConversation(ctx context.Context, userA, userB int64, limit, offset int) ([]*Message, error)
	CountConversation(ctx context.Context, userA, userB int64) (int64, error)
	MarkConversationRead(ctx context.Context, readerID, otherID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		msg.SenderID, msg.ReceiverID, msg.Content, msg.MessageType,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetConversation returns messages between the two users in both
// directions, newest first.
func (r *postgresRepository) GetConversation(ctx context.Context, userA, userB int64, limit, offset int) ([]*Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, message_type, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	var messages []*Message
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) CountConversation(ctx context.Context, userA, userB int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userA, userB); err != nil {
		return 0, fmt.Errorf("failed to count conversation: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) MarkConversationRead(ctx context.Context, readerID, otherID int64) error {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE`

	if _, err := r.db.ExecContext(ctx, query, readerID, otherID); err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return nil
}

func (r *postgresRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = FALSE`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread: %w", err)
	}
	return count, nil
}
