package auth

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

type AccessClaims struct {
	Subject   string
	SessionID string
	ExpiresAt time.Time
}
