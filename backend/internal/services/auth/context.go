package auth

import (
	"context"
	"strings"
)

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

// Identity is the caller as asserted by the identity provider.
// Subject is the provider's user id, not the local users.id.
type Identity struct {
	Subject   string
	SessionID string
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Subject) == ""
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || identity.IsZero() {
		return Identity{}, false
	}
	return identity, true
}
