package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

type AchievementRepo struct {
	pool *pgxpool.Pool
}

func NewAchievementRepo(pool *pgxpool.Pool) *AchievementRepo {
	return &AchievementRepo{pool: pool}
}

func (r *AchievementRepo) Create(ctx context.Context, item model.Achievement) (model.Achievement, error) {
	if r.pool == nil {
		return model.Achievement{}, fmt.Errorf("postgres pool is nil")
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var icon string
	err := r.pool.QueryRow(ctx, `
INSERT INTO achievements (user_id, title, date_label, icon, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, title, date_label, icon, created_at
`, item.UserID, item.Title, item.Date, string(item.Icon), createdAt.UTC()).Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Date,
		&icon,
		&item.CreatedAt,
	)
	if err != nil {
		return model.Achievement{}, fmt.Errorf("insert achievement: %w", err)
	}
	item.Icon = enums.AchievementIcon(icon)

	return item, nil
}

// Delete removes the row only when it belongs to userID.
func (r *AchievementRepo) Delete(ctx context.Context, userID, achievementID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM achievements WHERE id = $1 AND user_id = $2`, achievementID, userID)
	if err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAchievementNotFound
	}

	return nil
}

func (r *AchievementRepo) ListByUser(ctx context.Context, userID int64) ([]model.Achievement, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, title, date_label, icon, created_at
FROM achievements
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	items := make([]model.Achievement, 0)
	for rows.Next() {
		var (
			item model.Achievement
			icon string
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Date, &icon, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		item.Icon = enums.AchievementIcon(icon)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	return items, nil
}

func (r *AchievementRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM achievements WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count achievements: %w", err)
	}

	return count, nil
}
