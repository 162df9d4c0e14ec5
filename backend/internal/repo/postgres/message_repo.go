package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID int64, content string, at time.Time) (model.Message, error) {
	if r.pool == nil {
		return model.Message{}, fmt.Errorf("postgres pool is nil")
	}

	var msg model.Message
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (sender_id, receiver_id, content, read, created_at)
VALUES ($1, $2, $3, FALSE, $4)
RETURNING id, sender_id, receiver_id, content, read, created_at
`, senderID, receiverID, content, at.UTC()).Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.Content,
		&msg.Read,
		&msg.CreatedAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

func (r *MessageRepo) ListConversation(ctx context.Context, userA, userB int64, limit int) ([]model.Message, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, sender_id, receiver_id, content, read, created_at
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2)
   OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at DESC, id DESC
LIMIT $3
`, userA, userB, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.Message, 0, limit)
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return items, nil
}

// MarkRead flags every unread message from senderID to receiverID and returns how many changed.
func (r *MessageRepo) MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE messages SET read = TRUE
WHERE receiver_id = $1
  AND sender_id = $2
  AND read = FALSE
`, receiverID, senderID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return tag.RowsAffected(), nil
}
