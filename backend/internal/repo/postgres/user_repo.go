package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

const userColumns = `
	id,
	provider_id,
	name,
	avatar,
	bio,
	headline,
	location,
	university,
	graduation_year,
	skills,
	interests,
	linkedin_url,
	github_url,
	portfolio_url,
	visibility,
	connections,
	profile_views,
	search_appearances,
	completed_projects,
	profile_complete,
	created_at,
	profile_updated_at,
	last_viewed_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return model.User{}, ErrUserNotFound
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByProviderID(ctx context.Context, providerID string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(providerID) == "" {
		return model.User{}, ErrUserNotFound
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE provider_id = $1`, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by provider id: %w", err)
	}

	return user, nil
}

// UpdateProfile writes only the columns present in patch and always stamps profile_updated_at.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, patch model.ProfilePatch, at time.Time) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return model.User{}, ErrUserNotFound
	}

	sets := make([]string, 0, 13)
	args := make([]any, 0, 14)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Headline != nil {
		set("headline", *patch.Headline)
	}
	if patch.Bio != nil {
		set("bio", *patch.Bio)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.University != nil {
		set("university", *patch.University)
	}
	if patch.GraduationYear != nil {
		set("graduation_year", *patch.GraduationYear)
	}
	if patch.Skills != nil {
		set("skills", *patch.Skills)
	}
	if patch.Interests != nil {
		set("interests", *patch.Interests)
	}
	if patch.Visibility != nil {
		set("visibility", string(*patch.Visibility))
	}
	if patch.LinkedinURL.Set {
		set("linkedin_url", patch.LinkedinURL.Value)
	}
	if patch.GithubURL.Set {
		set("github_url", patch.GithubURL.Value)
	}
	if patch.PortfolioURL.Set {
		set("portfolio_url", patch.PortfolioURL.Value)
	}
	set("profile_updated_at", at.UTC())

	args = append(args, userID)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("update user profile: %w", err)
	}

	return user, nil
}

// RecordProfileView bumps the counter in a single statement and returns the new value.
func (r *UserRepo) RecordProfileView(ctx context.Context, userID int64, at time.Time) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var views int
	err := r.pool.QueryRow(ctx, `
UPDATE users SET
	profile_views = profile_views + 1,
	last_viewed_at = $2
WHERE id = $1
RETURNING profile_views
`, userID, at.UTC()).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("record profile view: %w", err)
	}

	return views, nil
}

func (r *UserRepo) SetProfileComplete(ctx context.Context, userID int64, complete bool) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `UPDATE users SET profile_complete = $2 WHERE id = $1`, userID, complete)
	if err != nil {
		return fmt.Errorf("set profile complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) SetAvatar(ctx context.Context, userID int64, avatarURL string, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users SET
	avatar = $2,
	profile_updated_at = $3
WHERE id = $1
`, userID, avatarURL, at.UTC())
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) IncrementConnections(ctx context.Context, tx pgx.Tx, userIDs ...int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if len(userIDs) == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET connections = connections + 1 WHERE id = ANY($1)`, userIDs); err != nil {
		return fmt.Errorf("increment connections: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user       model.User
		visibility *string
	)

	if err := row.Scan(
		&user.ID,
		&user.ProviderID,
		&user.Name,
		&user.Avatar,
		&user.Bio,
		&user.Headline,
		&user.Location,
		&user.University,
		&user.GraduationYear,
		&user.Skills,
		&user.Interests,
		&user.LinkedinURL,
		&user.GithubURL,
		&user.PortfolioURL,
		&visibility,
		&user.Connections,
		&user.ProfileViews,
		&user.SearchAppearances,
		&user.CompletedProjects,
		&user.ProfileComplete,
		&user.CreatedAt,
		&user.ProfileUpdatedAt,
		&user.LastViewedAt,
	); err != nil {
		return model.User{}, err
	}

	if visibility != nil {
		user.Visibility = enums.Visibility(*visibility)
	}

	return user, nil
}
