package repository

import (
	"context"
	"log"

	"curalink-backend/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Insert appends one conversation message for a user. Messages are never
// updated or deleted by the application.
func (r *MessageRepository) Insert(ctx context.Context, userID, role, content string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
	`, userID, role, content)
	return err
}

// ListRecent returns the newest messages for a user in chronological order
// (oldest first). Selects newest N rows DESC, then reverses.
func (r *MessageRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		log.Printf("[Messages] ListRecent query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return msgs, nil
}

// DeleteOlderThan removes messages older than the given number of days.
func (r *MessageRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM chat_messages WHERE created_at < NOW() - make_interval(days => $1)
	`, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
