package achievements

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/pkg/validate"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const (
	ActionWrite = "achievement_write"

	maxTitleLen = 100
	maxDateLen  = 50
)

var (
	ErrNotFound        = errors.New("achievement not found")
	ErrDependenciesNil = errors.New("achievement dependencies are not configured")
)

type Store interface {
	Create(ctx context.Context, item model.Achievement) (model.Achievement, error)
	Delete(ctx context.Context, userID, achievementID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Achievement, error)
}

type CallerResolver interface {
	Resolve(ctx context.Context, identity auth.Identity) (model.User, error)
}

type RateLimiter interface {
	Enforce(ctx context.Context, action string, quota ratesvc.Quota, subject ...string) error
}

type ActivityTracker interface {
	Track(ctx context.Context, userID int64, name string, props map[string]any) error
}

type Config struct {
	WriteQuota ratesvc.Quota
}

type CreateInput struct {
	Title string
	Date  string
	Icon  string
}

type Service struct {
	store    Store
	caller   CallerResolver
	limiter  RateLimiter
	activity ActivityTracker
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, caller CallerResolver, limiter RateLimiter, cfg Config, log *zap.Logger) *Service {
	if cfg.WriteQuota.Limit <= 0 || cfg.WriteQuota.Window <= 0 {
		cfg.WriteQuota = ratesvc.Quota{Limit: 20, Window: time.Hour}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:   store,
		caller:  caller,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) AttachActivity(activity ActivityTracker) {
	s.activity = activity
}

func (s *Service) Create(ctx context.Context, identity auth.Identity, in CreateInput) (model.Achievement, error) {
	if s.store == nil || s.caller == nil {
		return model.Achievement{}, ErrDependenciesNil
	}

	current, err := s.caller.Resolve(ctx, identity)
	if err != nil {
		return model.Achievement{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, ActionWrite, s.cfg.WriteQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return model.Achievement{}, err
		}
	}

	item := model.Achievement{
		UserID:    current.ID,
		Title:     strings.TrimSpace(in.Title),
		Date:      strings.TrimSpace(in.Date),
		Icon:      enums.AchievementIcon(strings.ToLower(strings.TrimSpace(in.Icon))),
		CreatedAt: s.now().UTC(),
	}

	var c validate.Collector
	c.Required("title", item.Title)
	c.MaxLen("title", item.Title, maxTitleLen)
	c.MaxLen("date", item.Date, maxDateLen)
	if !item.Icon.Valid() {
		c.Add("icon", "must be one of trophy, award, star")
	}
	if err := c.Err(); err != nil {
		return model.Achievement{}, err
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		return model.Achievement{}, fmt.Errorf("create achievement: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.Track(ctx, current.ID, analytics.EventAchievementCreated, map[string]any{"achievement_id": created.ID}); err != nil {
			s.log.Warn("activity event dropped", zap.String("event", analytics.EventAchievementCreated), zap.Error(err))
		}
	}

	return created, nil
}

// Delete only removes achievements owned by the caller. Anything else reads as ErrNotFound.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, achievementID int64) error {
	if s.store == nil || s.caller == nil {
		return ErrDependenciesNil
	}

	current, err := s.caller.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if achievementID <= 0 {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, current.ID, achievementID); err != nil {
		if errors.Is(err, pgrepo.ErrAchievementNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete achievement: %w", err)
	}

	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]model.Achievement, error) {
	if s.store == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return items, nil
}
