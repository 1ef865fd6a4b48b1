package repository

import (
	"context"

	"curalink-backend/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(ctx context.Context, userID, userType, fullName string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, user_type, full_name)
		VALUES ($1, $2, $3)
		RETURNING user_id, user_type, full_name, location, bio, created_at, updated_at
	`, userID, userType, fullName).Scan(
		&p.UserID, &p.UserType, &p.FullName, &p.Location, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, user_type, full_name, location, bio, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.UserType, &p.FullName, &p.Location, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID, location, bio string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles SET location = $2, bio = $3, updated_at = NOW() WHERE user_id = $1
	`, userID, location, bio)
	return err
}

func (r *ProfileRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// --- Condition interest tags ---

// InsertConditions bulk-inserts interest tags for a user. There is no update
// or delete path; onboarding writes them once.
func (r *ProfileRepository) InsertConditions(ctx context.Context, userID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, name := range names {
		if _, err := tx.Exec(ctx, `
			INSERT INTO conditions (user_id, condition_name) VALUES ($1, $2)
		`, userID, name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ProfileRepository) ListConditions(ctx context.Context, userID string) ([]model.Condition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, condition_name, created_at
		FROM conditions WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conditions []model.Condition
	for rows.Next() {
		var c model.Condition
		if err := rows.Scan(&c.ID, &c.UserID, &c.ConditionName, &c.CreatedAt); err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}
