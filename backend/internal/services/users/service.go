package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
)

type Store interface {
	GetByProviderID(ctx context.Context, providerID string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Resolve maps the provider identity to the local user record.
// A missing identity or an unknown subject is reported as auth.ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, identity auth.Identity) (model.User, error) {
	if identity.IsZero() {
		return model.User{}, auth.ErrUnauthorized
	}
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}

	user, err := s.store.GetByProviderID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, auth.ErrUnauthorized
		}
		return model.User{}, fmt.Errorf("resolve current user: %w", err)
	}

	return user, nil
}

// Find returns ok=false instead of an error when the user does not exist.
func (s *Service) Find(ctx context.Context, userID int64) (model.User, bool, error) {
	if s.store == nil {
		return model.User{}, false, fmt.Errorf("user store is nil")
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, false, nil
		}
		return model.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return user, true, nil
}
