package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

// ListReceived joins the author row so the bundle can show who wrote each recommendation.
func (r *RecommendationRepo) ListReceived(ctx context.Context, receiverID int64) ([]model.Recommendation, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	rec.id,
	rec.receiver_id,
	rec.author_id,
	author.name,
	author.headline,
	author.avatar,
	rec.content,
	rec.date_label,
	rec.created_at
FROM recommendations rec
JOIN users author ON author.id = rec.author_id
WHERE rec.receiver_id = $1
ORDER BY rec.created_at DESC, rec.id DESC
`, receiverID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	items := make([]model.Recommendation, 0)
	for rows.Next() {
		var item model.Recommendation
		if err := rows.Scan(
			&item.ID,
			&item.ReceiverID,
			&item.AuthorID,
			&item.AuthorName,
			&item.AuthorRole,
			&item.AuthorAvatar,
			&item.Content,
			&item.Date,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}

	return items, nil
}
