package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	profilesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/profiles"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
	userssvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/users"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type profileReadStub struct{}

func (profileReadStub) HasAccepted(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (profileReadStub) ListByUser(_ context.Context, userID int64) ([]model.Achievement, error) {
	if userID == 2 {
		return []model.Achievement{{ID: 9, UserID: 2, Title: "Hackathon winner", Icon: "trophy"}}, nil
	}
	return nil, nil
}

func (s profileReadStub) CountByUser(ctx context.Context, userID int64) (int, error) {
	items, _ := s.ListByUser(ctx, userID)
	return len(items), nil
}

type extracurricularReadStub struct{}

func (extracurricularReadStub) ListByUser(context.Context, int64) ([]model.Extracurricular, error) {
	return nil, nil
}

func (extracurricularReadStub) ListReceived(context.Context, int64) ([]model.Recommendation, error) {
	return nil, nil
}

func newProfileHandler(t *testing.T, store *userStoreStub, cfg profilesvc.Config) *ProfileHandler {
	t.Helper()

	limiter, _ := newTestLimiter(t)
	service := profilesvc.NewService(profilesvc.Dependencies{
		Users:            store,
		Caller:           userssvc.NewService(store),
		Connections:      profileReadStub{},
		Achievements:     profileReadStub{},
		Extracurriculars: extracurricularReadStub{},
		Recommendations:  extracurricularReadStub{},
		Limiter:          limiter,
	}, cfg)
	return NewProfileHandler(service)
}

func TestProfileGetCountsViewForPublicProfile(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{})

	rr := serve("/v1/profiles/{user_id}", http.MethodGet, h.Get,
		authedRequest(http.MethodGet, "/v1/profiles/2", nil, "idp-ada"))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var bundle model.ProfileBundle
	if err := json.Unmarshal(rr.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if bundle.ID != 2 || bundle.ProfileViews != 1 {
		t.Fatalf("unexpected bundle: id=%d views=%d", bundle.ID, bundle.ProfileViews)
	}
	if len(bundle.Achievements) != 1 || bundle.Achievements[0].Title != "Hackathon winner" {
		t.Fatalf("unexpected achievements: %+v", bundle.Achievements)
	}

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw response: %v", err)
	}
	if value, exists := raw["linkedin_url"]; !exists || value != nil {
		t.Fatalf("linkedin_url must be present as null, got %v (exists=%v)", value, exists)
	}
}

func TestProfileGetHidesPrivateAndMissing(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{})

	for _, path := range []string{"/v1/profiles/3", "/v1/profiles/404"} {
		rr := serve("/v1/profiles/{user_id}", http.MethodGet, h.Get,
			authedRequest(http.MethodGet, path, nil, "idp-ada"))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: unexpected status: got %d want %d", path, rr.Code, http.StatusNotFound)
		}
	}
	if store.users[3].ProfileViews != 0 {
		t.Fatalf("hidden profile must not count a view")
	}
}

func TestProfileGetUnknownCallerIsUnauthorized(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{})

	rr := serve("/v1/profiles/{user_id}", http.MethodGet, h.Get,
		authedRequest(http.MethodGet, "/v1/profiles/2", nil, "idp-unknown"))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}

	rr = serve("/v1/profiles/{user_id}", http.MethodGet, h.Get,
		authedRequest(http.MethodGet, "/v1/profiles/2", nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing identity: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestProfileGetRejectsBadID(t *testing.T) {
	h := newProfileHandler(t, newUserStoreStub(usersFixture()...), profilesvc.Config{})

	rr := serve("/v1/profiles/{user_id}", http.MethodGet, h.Get,
		authedRequest(http.MethodGet, "/v1/profiles/abc", nil, "idp-ada"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProfileStrength(t *testing.T) {
	h := newProfileHandler(t, newUserStoreStub(usersFixture()...), profilesvc.Config{})

	rr := serve("/v1/profiles/{user_id}/strength", http.MethodGet, h.Strength,
		authedRequest(http.MethodGet, "/v1/profiles/1/strength", nil, "idp-ada"))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload dto.ProfileStrengthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// name 5 + headline 10
	if payload.UserID != 1 || payload.Score != 15 {
		t.Fatalf("unexpected strength payload: %+v", payload)
	}
}

func TestProfileUpdateValidationReturnsFields(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{})

	body := `{"name":"` + strings.Repeat("x", 101) + `","github_url":"ftp://example.com"}`
	rr := serve("/v1/profile", http.MethodPatch, h.Update,
		authedRequest(http.MethodPatch, "/v1/profile", strings.NewReader(body), "idp-ada"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var payload httperrors.ValidationError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code: %s", payload.Code)
	}
	if _, ok := payload.Fields["name"]; !ok {
		t.Fatalf("expected name field error, got %v", payload.Fields)
	}
	if _, ok := payload.Fields["github_url"]; !ok {
		t.Fatalf("expected github_url field error, got %v", payload.Fields)
	}
	if store.users[1].Name != "Ada" {
		t.Fatalf("invalid update must not persist")
	}
}

func TestProfileUpdateRateLimited(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{
		UpdateQuota: ratesvc.Quota{Limit: 1, Window: time.Hour},
	})

	first := serve("/v1/profile", http.MethodPatch, h.Update,
		authedRequest(http.MethodPatch, "/v1/profile", strings.NewReader(`{"headline":"Staff engineer"}`), "idp-ada"))
	if first.Code != http.StatusOK {
		t.Fatalf("first update: got %d want %d body=%s", first.Code, http.StatusOK, first.Body.String())
	}
	if store.users[1].Headline != "Staff engineer" {
		t.Fatalf("first update must persist")
	}

	second := serve("/v1/profile", http.MethodPatch, h.Update,
		authedRequest(http.MethodPatch, "/v1/profile", strings.NewReader(`{"headline":"CTO"}`), "idp-ada"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second update: got %d want %d", second.Code, http.StatusTooManyRequests)
	}

	var payload httperrors.RateLimitError
	if err := json.Unmarshal(second.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.RetryAfterSec <= 0 || !strings.Contains(payload.Message, "1 per hour") {
		t.Fatalf("unexpected rate limit payload: %+v", payload)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if store.users[1].Headline != "Staff engineer" {
		t.Fatalf("limited update must not persist")
	}
}

func TestProfileUpdateRejectsUnknownField(t *testing.T) {
	h := newProfileHandler(t, newUserStoreStub(usersFixture()...), profilesvc.Config{})

	rr := serve("/v1/profile", http.MethodPatch, h.Update,
		authedRequest(http.MethodPatch, "/v1/profile", strings.NewReader(`{"avatar":"https://x"}`), "idp-ada"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProfileCompleteness(t *testing.T) {
	store := newUserStoreStub(usersFixture()...)
	h := newProfileHandler(t, store, profilesvc.Config{})

	rr := serve("/v1/profile/completeness", http.MethodPost, h.Completeness,
		authedRequest(http.MethodPost, "/v1/profile/completeness", nil, "idp-ada"))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload dto.ProfileCompletenessResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Score != 15 || payload.ProfileComplete {
		t.Fatalf("unexpected completeness: %+v", payload)
	}
}
