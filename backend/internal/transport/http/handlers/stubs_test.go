package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	redrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/redis"
	authsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

type userStoreStub struct {
	users     map[int64]model.User
	avatarURL string
}

func newUserStoreStub(users ...model.User) *userStoreStub {
	s := &userStoreStub{users: make(map[int64]model.User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *userStoreStub) GetByProviderID(_ context.Context, providerID string) (model.User, error) {
	for _, u := range s.users {
		if u.ProviderID == providerID {
			return u, nil
		}
	}
	return model.User{}, pgrepo.ErrUserNotFound
}

func (s *userStoreStub) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return u, nil
}

func (s *userStoreStub) UpdateProfile(_ context.Context, userID int64, patch model.ProfilePatch, at time.Time) (model.User, error) {
	u := s.users[userID]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Headline != nil {
		u.Headline = *patch.Headline
	}
	if patch.Skills != nil {
		u.Skills = *patch.Skills
	}
	u.ProfileUpdatedAt = at
	s.users[userID] = u
	return u, nil
}

func (s *userStoreStub) RecordProfileView(_ context.Context, userID int64, at time.Time) (int, error) {
	u := s.users[userID]
	u.ProfileViews++
	u.LastViewedAt = &at
	s.users[userID] = u
	return u.ProfileViews, nil
}

func (s *userStoreStub) SetProfileComplete(_ context.Context, userID int64, complete bool) error {
	u := s.users[userID]
	u.ProfileComplete = complete
	s.users[userID] = u
	return nil
}

func (s *userStoreStub) SetAvatar(_ context.Context, userID int64, avatarURL string, _ time.Time) error {
	u := s.users[userID]
	u.Avatar = &avatarURL
	s.users[userID] = u
	s.avatarURL = avatarURL
	return nil
}

func newTestLimiter(t *testing.T) (*ratesvc.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratesvc.NewLimiter(redrepo.NewRateRepo(client)), mr
}

func authedRequest(method, target string, body io.Reader, subject string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "203.0.113.7:5150"
	if subject == "" {
		return req
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{Subject: subject}))
}

// serve routes the request through chi so URL params resolve.
func serve(pattern, method string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func usersFixture() []model.User {
	return []model.User{
		{ID: 1, ProviderID: "idp-ada", Name: "Ada", Headline: "Engineer"},
		{ID: 2, ProviderID: "idp-grace", Name: "Grace", Visibility: "public"},
		{ID: 3, ProviderID: "idp-linus", Name: "Linus", Visibility: "private"},
	}
}
