package extracurriculars

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/pkg/validate"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const (
	ActionWrite = "extracurricular_write"

	maxTitleLen       = 100
	maxOrgLen         = 100
	maxLabelLen       = 50
	maxDescriptionLen = 2000
)

var (
	ErrNotFound        = errors.New("extracurricular not found")
	ErrDependenciesNil = errors.New("extracurricular dependencies are not configured")
)

type Store interface {
	Create(ctx context.Context, item model.Extracurricular) (model.Extracurricular, error)
	Delete(ctx context.Context, userID, itemID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Extracurricular, error)
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
	Title        string
	Organization string
	Type         string
	StartDate    string
	EndDate      string
	Description  string
	Logo         string
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

func (s *Service) Create(ctx context.Context, identity auth.Identity, in CreateInput) (model.Extracurricular, error) {
	if s.store == nil || s.caller == nil {
		return model.Extracurricular{}, ErrDependenciesNil
	}

	current, err := s.caller.Resolve(ctx, identity)
	if err != nil {
		return model.Extracurricular{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, ActionWrite, s.cfg.WriteQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return model.Extracurricular{}, err
		}
	}

	item := model.Extracurricular{
		UserID:       current.ID,
		Title:        strings.TrimSpace(in.Title),
		Organization: strings.TrimSpace(in.Organization),
		Type:         strings.TrimSpace(in.Type),
		StartDate:    strings.TrimSpace(in.StartDate),
		EndDate:      strings.TrimSpace(in.EndDate),
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    s.now().UTC(),
	}
	logo := strings.TrimSpace(in.Logo)

	var c validate.Collector
	c.Required("title", item.Title)
	c.MaxLen("title", item.Title, maxTitleLen)
	c.MaxLen("organization", item.Organization, maxOrgLen)
	c.MaxLen("type", item.Type, maxLabelLen)
	c.MaxLen("start_date", item.StartDate, maxLabelLen)
	c.MaxLen("end_date", item.EndDate, maxLabelLen)
	c.MaxLen("description", item.Description, maxDescriptionLen)
	c.OptionalURL("logo", logo)
	if err := c.Err(); err != nil {
		return model.Extracurricular{}, err
	}
	if logo != "" {
		item.Logo = &logo
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		return model.Extracurricular{}, fmt.Errorf("create extracurricular: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.Track(ctx, current.ID, analytics.EventExtracurricularCreated, map[string]any{"extracurricular_id": created.ID}); err != nil {
			s.log.Warn("activity event dropped", zap.String("event", analytics.EventExtracurricularCreated), zap.Error(err))
		}
	}

	return created, nil
}

func (s *Service) Delete(ctx context.Context, identity auth.Identity, itemID int64) error {
	if s.store == nil || s.caller == nil {
		return ErrDependenciesNil
	}

	current, err := s.caller.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if itemID <= 0 {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, current.ID, itemID); err != nil {
		if errors.Is(err, pgrepo.ErrExtracurricularNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete extracurricular: %w", err)
	}

	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]model.Extracurricular, error) {
	if s.store == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list extracurriculars: %w", err)
	}
	return items, nil
}
