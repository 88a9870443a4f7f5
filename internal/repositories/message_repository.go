package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"groupchat/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for group messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) error
	ListRecentMessages(ctx context.Context, groupID string, limit int, offset int) ([]models.Message, error)
	CountMessages(ctx context.Context, groupID string) (int, error)
	GetMessage(ctx context.Context, messageID string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage persists a group message.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO messages (id, group_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`),
		msg.ID, msg.GroupID, msg.UserID, msg.Content, msg.CreatedAt)
	return mapInsertError(err, "insert message")
}

// ListRecentMessages returns one page of a group's messages, newest first,
// with the sender's username joined in.
func (r *MessageRepo) ListRecentMessages(ctx context.Context, groupID string, limit int, offset int) ([]models.Message, error) {
	query := `SELECT m.id, m.group_id, m.user_id, u.username, m.content, m.created_at
        FROM messages m
        INNER JOIN users u ON u.id = m.user_id
        WHERE m.group_id = ?
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT ? OFFSET ?`
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, r.db.Rebind(query), groupID, limit, offset)
	return msgs, err
}

// CountMessages returns the number of messages in a group.
func (r *MessageRepo) CountMessages(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM messages WHERE group_id = ?`), groupID)
	return count, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, r.db.Rebind(`SELECT m.id, m.group_id, m.user_id, u.username, m.content, m.created_at
        FROM messages m INNER JOIN users u ON u.id = m.user_id WHERE m.id = ?`), messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}
