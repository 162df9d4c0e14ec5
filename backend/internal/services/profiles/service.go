package profiles

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
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/rules"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const (
	ActionProfileView   = "profile_view"
	ActionProfileUpdate = "profile_update"
)

var ErrDependenciesNil = errors.New("profile dependencies are not configured")

type UserStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch model.ProfilePatch, at time.Time) (model.User, error)
	RecordProfileView(ctx context.Context, userID int64, at time.Time) (int, error)
	SetProfileComplete(ctx context.Context, userID int64, complete bool) error
}

type CallerResolver interface {
	Resolve(ctx context.Context, identity auth.Identity) (model.User, error)
}

type ConnectionChecker interface {
	HasAccepted(ctx context.Context, userA, userB int64) (bool, error)
}

type AchievementStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Achievement, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type ExtracurricularStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Extracurricular, error)
}

type RecommendationStore interface {
	ListReceived(ctx context.Context, receiverID int64) ([]model.Recommendation, error)
}

type RateLimiter interface {
	Check(ctx context.Context, key string, quota ratesvc.Quota) (ratesvc.Decision, error)
	Enforce(ctx context.Context, action string, quota ratesvc.Quota, subject ...string) error
}

type ActivityTracker interface {
	Track(ctx context.Context, userID int64, name string, props map[string]any) error
}

type ViewObserver interface {
	ObserveProfileView()
}

type Config struct {
	ViewQuota   ratesvc.Quota
	UpdateQuota ratesvc.Quota
}

type Dependencies struct {
	Users            UserStore
	Caller           CallerResolver
	Connections      ConnectionChecker
	Achievements     AchievementStore
	Extracurriculars ExtracurricularStore
	Recommendations  RecommendationStore
	Limiter          RateLimiter
	Activity         ActivityTracker
	Views            ViewObserver
	Logger           *zap.Logger
}

type Service struct {
	deps Dependencies
	cfg  Config
	log  *zap.Logger
	now  func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.ViewQuota.Limit <= 0 || cfg.ViewQuota.Window <= 0 {
		cfg.ViewQuota = ratesvc.Quota{Limit: 100, Window: time.Hour}
	}
	if cfg.UpdateQuota.Limit <= 0 || cfg.UpdateQuota.Window <= 0 {
		cfg.UpdateQuota = ratesvc.Quota{Limit: 30, Window: time.Hour}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		deps: deps,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

// CalculateProfileStrength scores the stored profile. Unknown users score 0.
func (s *Service) CalculateProfileStrength(ctx context.Context, userID int64) (int, error) {
	if s.deps.Users == nil || s.deps.Achievements == nil {
		return 0, ErrDependenciesNil
	}

	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load user for strength: %w", err)
	}

	achievements, err := s.deps.Achievements.CountByUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("count achievements: %w", err)
	}

	return rules.ProfileStrength(user, achievements), nil
}

func (s *Service) UpdateProfileCompleteness(ctx context.Context, identity auth.Identity) (int, bool, error) {
	if s.deps.Caller == nil || s.deps.Users == nil {
		return 0, false, ErrDependenciesNil
	}

	current, err := s.deps.Caller.Resolve(ctx, identity)
	if err != nil {
		return 0, false, err
	}

	score, err := s.CalculateProfileStrength(ctx, current.ID)
	if err != nil {
		return 0, false, err
	}

	complete := rules.IsProfileComplete(score)
	if err := s.deps.Users.SetProfileComplete(ctx, current.ID, complete); err != nil {
		return 0, false, fmt.Errorf("persist profile completeness: %w", err)
	}

	return score, complete, nil
}

// GetProfileByUserID returns nil without an error when the target does not exist
// or its visibility hides it from the caller.
func (s *Service) GetProfileByUserID(ctx context.Context, identity auth.Identity, targetID int64, viewerIP string) (*model.ProfileBundle, error) {
	if s.deps.Caller == nil || s.deps.Users == nil {
		return nil, ErrDependenciesNil
	}

	current, err := s.deps.Caller.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	target, err := s.deps.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load target profile: %w", err)
	}

	owner := current.ID == target.ID
	visibility := target.Visibility.Effective()

	if !owner {
		switch visibility {
		case enums.VisibilityPrivate:
			return nil, nil
		case enums.VisibilityConnections:
			connected, err := s.isConnected(ctx, current.ID, target.ID)
			if err != nil {
				return nil, err
			}
			if !connected {
				return nil, nil
			}
		}
	}

	if !owner && visibility == enums.VisibilityPublic {
		views, counted, err := s.trackView(ctx, current, target, viewerIP)
		if err != nil {
			return nil, err
		}
		if counted {
			target.ProfileViews = views
		}
	}

	return s.assemble(ctx, target, visibility)
}

func (s *Service) isConnected(ctx context.Context, viewerID, targetID int64) (bool, error) {
	if s.deps.Connections == nil {
		return false, ErrDependenciesNil
	}
	connected, err := s.deps.Connections.HasAccepted(ctx, viewerID, targetID)
	if err != nil {
		return false, fmt.Errorf("check connection: %w", err)
	}
	return connected, nil
}

// trackView counts at most one view per allowed limiter decision.
func (s *Service) trackView(ctx context.Context, viewer, target model.User, viewerIP string) (int, bool, error) {
	if s.deps.Limiter == nil {
		return 0, false, nil
	}

	viewerKey := strings.TrimSpace(viewerIP)
	if viewerKey == "" {
		viewerKey = strconv.FormatInt(viewer.ID, 10)
	}
	key := ratesvc.BuildKey(ActionProfileView, viewerKey, strconv.FormatInt(target.ID, 10))

	decision, err := s.deps.Limiter.Check(ctx, key, s.cfg.ViewQuota)
	if err != nil {
		s.log.Warn("profile view limiter unavailable", zap.Int64("target_id", target.ID), zap.Error(err))
		return 0, false, nil
	}
	if !decision.Allowed {
		return 0, false, nil
	}

	views, err := s.deps.Users.RecordProfileView(ctx, target.ID, s.now().UTC())
	if err != nil {
		return 0, false, fmt.Errorf("record profile view: %w", err)
	}

	if s.deps.Views != nil {
		s.deps.Views.ObserveProfileView()
	}
	s.track(ctx, target.ID, analytics.EventProfileViewed, map[string]any{"viewer_id": viewer.ID})

	return views, true, nil
}

func (s *Service) assemble(ctx context.Context, user model.User, visibility enums.Visibility) (*model.ProfileBundle, error) {
	if s.deps.Achievements == nil || s.deps.Extracurriculars == nil || s.deps.Recommendations == nil {
		return nil, ErrDependenciesNil
	}

	achievements, err := s.deps.Achievements.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	extracurriculars, err := s.deps.Extracurriculars.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list extracurriculars: %w", err)
	}
	recommendations, err := s.deps.Recommendations.ListReceived(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	var graduationYear *string
	if user.GraduationYear != nil {
		v := strconv.Itoa(*user.GraduationYear)
		graduationYear = &v
	}

	return &model.ProfileBundle{
		ID:                user.ID,
		Name:              user.Name,
		Avatar:            nonEmpty(user.Avatar),
		Headline:          user.Headline,
		Bio:               user.Bio,
		Location:          user.Location,
		University:        user.University,
		GraduationYear:    graduationYear,
		Skills:            nonNil(user.Skills),
		Interests:         nonNil(user.Interests),
		Visibility:        visibility,
		LinkedinURL:       nonEmpty(user.LinkedinURL),
		GithubURL:         nonEmpty(user.GithubURL),
		PortfolioURL:      nonEmpty(user.PortfolioURL),
		Connections:       user.Connections,
		ProfileViews:      user.ProfileViews,
		SearchAppearances: user.SearchAppearances,
		CompletedProjects: user.CompletedProjects,
		Achievements:      achievements,
		Extracurriculars:  extracurriculars,
		Recommendations:   recommendations,
	}, nil
}

func (s *Service) track(ctx context.Context, userID int64, name string, props map[string]any) {
	if s.deps.Activity == nil {
		return
	}
	if err := s.deps.Activity.Track(ctx, userID, name, props); err != nil {
		s.log.Warn("activity event dropped", zap.String("event", name), zap.Int64("user_id", userID), zap.Error(err))
	}
}

func nonEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
