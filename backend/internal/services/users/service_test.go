package users

import (
	"context"
	"errors"
	"testing"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
)

type fakeStore struct {
	byProvider map[string]model.User
	err        error
}

func (f *fakeStore) GetByProviderID(_ context.Context, providerID string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	user, ok := f.byProvider[providerID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	for _, user := range f.byProvider {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, pgrepo.ErrUserNotFound
}

func TestResolveKnownSubject(t *testing.T) {
	svc := NewService(&fakeStore{byProvider: map[string]model.User{"idp|1": {ID: 7}}})

	user, err := svc.Resolve(context.Background(), auth.Identity{Subject: "idp|1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("unexpected user id: %d", user.ID)
	}
}

func TestResolveMissingIdentity(t *testing.T) {
	svc := NewService(&fakeStore{})
	if _, err := svc.Resolve(context.Background(), auth.Identity{}); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveUnknownSubject(t *testing.T) {
	svc := NewService(&fakeStore{byProvider: map[string]model.User{}})
	if _, err := svc.Resolve(context.Background(), auth.Identity{Subject: "idp|404"}); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolvePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("db down")
	svc := NewService(&fakeStore{err: storeErr})

	_, err := svc.Resolve(context.Background(), auth.Identity{Subject: "idp|1"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("store failure must not read as unauthorized")
	}
}

func TestFind(t *testing.T) {
	svc := NewService(&fakeStore{byProvider: map[string]model.User{"idp|1": {ID: 7}}})

	if _, ok, err := svc.Find(context.Background(), 7); err != nil || !ok {
		t.Fatalf("expected user 7: ok=%v err=%v", ok, err)
	}
	if _, ok, err := svc.Find(context.Background(), 8); err != nil || ok {
		t.Fatalf("expected missing user: ok=%v err=%v", ok, err)
	}
}
