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

const connectionColumns = `id, requester_id, receiver_id, status, created_at, updated_at`

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

// HasAccepted reports an accepted edge in either direction.
func (r *ConnectionRepo) HasAccepted(ctx context.Context, userA, userB int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM connections
	WHERE status = 'accepted'
	  AND (
		(requester_id = $1 AND receiver_id = $2)
		OR (requester_id = $2 AND receiver_id = $1)
	  )
)
`, userA, userB).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check accepted connection: %w", err)
	}

	return exists, nil
}

func (r *ConnectionRepo) FindBetween(ctx context.Context, userA, userB int64) (model.Connection, bool, error) {
	if r.pool == nil {
		return model.Connection{}, false, fmt.Errorf("postgres pool is nil")
	}

	conn, err := scanConnection(r.pool.QueryRow(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE (requester_id = $1 AND receiver_id = $2)
   OR (requester_id = $2 AND receiver_id = $1)
ORDER BY id ASC
LIMIT 1
`, userA, userB))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Connection{}, false, nil
		}
		return model.Connection{}, false, fmt.Errorf("find connection: %w", err)
	}

	return conn, true, nil
}

func (r *ConnectionRepo) Create(ctx context.Context, requesterID, receiverID int64, at time.Time) (model.Connection, error) {
	if r.pool == nil {
		return model.Connection{}, fmt.Errorf("postgres pool is nil")
	}

	conn, err := scanConnection(r.pool.QueryRow(ctx, `
INSERT INTO connections (requester_id, receiver_id, status, created_at, updated_at)
VALUES ($1, $2, 'pending', $3, $3)
RETURNING `+connectionColumns+`
`, requesterID, receiverID, at.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Connection{}, ErrConnectionExists
		}
		return model.Connection{}, fmt.Errorf("insert connection: %w", err)
	}

	return conn, nil
}

// Accept flips a pending request addressed to receiverID. Any other state reports ErrConnectionNotFound.
func (r *ConnectionRepo) Accept(ctx context.Context, tx pgx.Tx, connectionID, receiverID int64, at time.Time) (model.Connection, error) {
	if tx == nil {
		return model.Connection{}, fmt.Errorf("transaction is required")
	}

	conn, err := scanConnection(tx.QueryRow(ctx, `
UPDATE connections SET
	status = 'accepted',
	updated_at = $3
WHERE id = $1
  AND receiver_id = $2
  AND status = 'pending'
RETURNING `+connectionColumns+`
`, connectionID, receiverID, at.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Connection{}, ErrConnectionNotFound
		}
		return model.Connection{}, fmt.Errorf("accept connection: %w", err)
	}

	return conn, nil
}

func (r *ConnectionRepo) ListAccepted(ctx context.Context, userID int64) ([]model.Connection, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE status = 'accepted'
  AND (requester_id = $1 OR receiver_id = $1)
ORDER BY updated_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}
	defer rows.Close()

	items := make([]model.Connection, 0)
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		items = append(items, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}

	return items, nil
}

func scanConnection(row pgx.Row) (model.Connection, error) {
	var (
		conn   model.Connection
		status string
	)
	if err := row.Scan(&conn.ID, &conn.RequesterID, &conn.ReceiverID, &status, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
		return model.Connection{}, err
	}
	conn.Status = enums.ConnectionStatus(status)
	return conn, nil
}
