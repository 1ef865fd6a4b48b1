package repository

import (
	"context"

	"curalink-backend/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ForumRepository struct {
	pool *pgxpool.Pool
}

func NewForumRepository(pool *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{pool: pool}
}

func (r *ForumRepository) CreateThread(ctx context.Context, authorName, title, content string) (*model.ForumThread, error) {
	t := &model.ForumThread{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO forum_threads (author_name, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, author_name, title, content, replies_count, created_at
	`, authorName, title, content).Scan(
		&t.ID, &t.AuthorName, &t.Title, &t.Content, &t.RepliesCount, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ForumRepository) GetThread(ctx context.Context, id int64) (*model.ForumThread, error) {
	t := &model.ForumThread{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, author_name, title, content, replies_count, created_at
		FROM forum_threads WHERE id = $1
	`, id).Scan(&t.ID, &t.AuthorName, &t.Title, &t.Content, &t.RepliesCount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ForumRepository) ListThreads(ctx context.Context, limit int) ([]model.ForumThread, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_name, title, content, replies_count, created_at
		FROM forum_threads ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []model.ForumThread
	for rows.Next() {
		var t model.ForumThread
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.Title, &t.Content, &t.RepliesCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (r *ForumRepository) CreateReply(ctx context.Context, threadID int64, authorName, content string) (*model.ForumReply, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	reply := &model.ForumReply{}
	err = tx.QueryRow(ctx, `
		INSERT INTO forum_replies (thread_id, author_name, content)
		VALUES ($1, $2, $3)
		RETURNING id, thread_id, author_name, content, created_at
	`, threadID, authorName, content).Scan(
		&reply.ID, &reply.ThreadID, &reply.AuthorName, &reply.Content, &reply.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE forum_threads SET replies_count = replies_count + 1 WHERE id = $1
	`, threadID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reply, nil
}

func (r *ForumRepository) ListReplies(ctx context.Context, threadID int64) ([]model.ForumReply, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, thread_id, author_name, content, created_at
		FROM forum_replies WHERE thread_id = $1 ORDER BY created_at ASC, id ASC
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []model.ForumReply
	for rows.Next() {
		var rep model.ForumReply
		if err := rows.Scan(&rep.ID, &rep.ThreadID, &rep.AuthorName, &rep.Content, &rep.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, rep)
	}
	return replies, rows.Err()
}

func (r *ForumRepository) CountThreads(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forum_threads`).Scan(&count)
	return count, err
}
