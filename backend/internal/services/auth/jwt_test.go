package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "https://idp.networkly.test", 15*time.Minute)

	token, expiresAt, err := m.GenerateAccessToken("user_2abc", "sess_1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user_2abc" || claims.SessionID != "sess_1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Identity().Subject != "user_2abc" {
		t.Fatalf("unexpected identity: %+v", claims.Identity())
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", "", time.Minute)
	verifier := NewJWTManager("secret-b", "", time.Minute)

	token, _, err := issuer.GenerateAccessToken("user_1", "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTRejectsWrongIssuer(t *testing.T) {
	issuer := NewJWTManager("secret", "https://a.example", time.Minute)
	verifier := NewJWTManager("secret", "https://b.example", time.Minute)

	token, _, err := issuer.GenerateAccessToken("user_1", "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", "", time.Minute)
	m.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

	token, _, err := m.GenerateAccessToken("user_1", "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	m.now = func() time.Time { return time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC) }
	if _, err := m.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestIdentityFromContextRejectsEmptySubject(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Subject: "  "})
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatalf("blank subject must not count as authenticated")
	}

	ctx = WithIdentity(context.Background(), Identity{Subject: "user_1"})
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.Subject != "user_1" {
		t.Fatalf("unexpected identity: %+v ok=%v", identity, ok)
	}
}
