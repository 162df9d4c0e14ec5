package enums

import "strings"

type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityPrivate     Visibility = "private"
	VisibilityConnections Visibility = "connections"
)

// ParseVisibility reports false for anything outside the three tiers.
func ParseVisibility(raw string) (Visibility, bool) {
	switch Visibility(strings.ToLower(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic, true
	case VisibilityPrivate:
		return VisibilityPrivate, true
	case VisibilityConnections:
		return VisibilityConnections, true
	default:
		return "", false
	}
}

// Effective resolves an unset tier to public.
func (v Visibility) Effective() Visibility {
	if parsed, ok := ParseVisibility(string(v)); ok {
		return parsed
	}
	return VisibilityPublic
}
