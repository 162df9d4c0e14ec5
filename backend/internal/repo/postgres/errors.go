package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrAchievementNotFound     = errors.New("achievement not found")
	ErrExtracurricularNotFound = errors.New("extracurricular not found")
	ErrConnectionNotFound      = errors.New("connection not found")
	ErrConnectionExists        = errors.New("connection already exists")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
