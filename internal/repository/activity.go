package repository

import (
	"context"

	"curalink-backend/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Insert(ctx context.Context, userID, eventType, detail string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_events (user_id, event_type, detail)
		VALUES (NULLIF($1, ''), $2, $3)
	`, userID, eventType, detail)
	return err
}

func (r *ActivityRepository) ListByType(ctx context.Context, eventType string, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, event_type, detail, created_at
		FROM activity_events
		WHERE event_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, eventType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ActivityEvent
	for rows.Next() {
		var e model.ActivityEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventType, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *ActivityRepository) CountByType(ctx context.Context, eventType string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_events WHERE event_type = $1
	`, eventType).Scan(&count)
	return count, err
}

// --- Announcements ---

func (r *ActivityRepository) InsertAnnouncement(ctx context.Context, body string) (*model.Announcement, error) {
	a := &model.Announcement{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO announcements (body) VALUES ($1)
		RETURNING id, body, created_at
	`, body).Scan(&a.ID, &a.Body, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) ListAnnouncements(ctx context.Context, limit int) ([]model.Announcement, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, body, created_at FROM announcements ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Body, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
