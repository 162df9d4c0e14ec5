package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

type ExtracurricularRepo struct {
	pool *pgxpool.Pool
}

func NewExtracurricularRepo(pool *pgxpool.Pool) *ExtracurricularRepo {
	return &ExtracurricularRepo{pool: pool}
}

func (r *ExtracurricularRepo) Create(ctx context.Context, item model.Extracurricular) (model.Extracurricular, error) {
	if r.pool == nil {
		return model.Extracurricular{}, fmt.Errorf("postgres pool is nil")
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO extracurriculars (
	user_id,
	title,
	organization,
	activity_type,
	start_date,
	end_date,
	description,
	logo,
	created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at
`,
		item.UserID,
		item.Title,
		item.Organization,
		item.Type,
		item.StartDate,
		item.EndDate,
		item.Description,
		item.Logo,
		createdAt.UTC(),
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return model.Extracurricular{}, fmt.Errorf("insert extracurricular: %w", err)
	}

	return item, nil
}

func (r *ExtracurricularRepo) Delete(ctx context.Context, userID, itemID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM extracurriculars WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete extracurricular: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExtracurricularNotFound
	}

	return nil
}

func (r *ExtracurricularRepo) ListByUser(ctx context.Context, userID int64) ([]model.Extracurricular, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	id,
	user_id,
	title,
	organization,
	activity_type,
	start_date,
	end_date,
	description,
	logo,
	created_at
FROM extracurriculars
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query extracurriculars: %w", err)
	}
	defer rows.Close()

	items := make([]model.Extracurricular, 0)
	for rows.Next() {
		var item model.Extracurricular
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Organization,
			&item.Type,
			&item.StartDate,
			&item.EndDate,
			&item.Description,
			&item.Logo,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan extracurricular: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extracurriculars: %w", err)
	}

	return items, nil
}
