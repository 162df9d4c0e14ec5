package auth

import (
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

type tokenClaims struct {
	SID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTManager(secret, issuer string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	return &JWTManager{
		secret:    []byte(secret),
		issuer:    strings.TrimSpace(issuer),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateAccessToken mints a provider-compatible token; used by local tooling and tests.
func (m *JWTManager) GenerateAccessToken(subject, sid string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, fmt.Errorf("invalid access token payload")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.accessTTL)
	claims := tokenClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) ParseAccessToken(raw string) (AccessClaims, error) {
	if strings.TrimSpace(raw) == "" || len(m.secret) == 0 {
		return AccessClaims{}, ErrUnauthorized
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || token == nil || !token.Valid {
		return AccessClaims{}, ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return AccessClaims{}, ErrUnauthorized
	}

	return AccessClaims{
		Subject:   claims.Subject,
		SessionID: claims.SID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Identity adapts verified claims to the request identity.
func (c AccessClaims) Identity() Identity {
	return Identity{Subject: c.Subject, SessionID: c.SessionID}
}
