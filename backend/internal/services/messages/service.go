package messages

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
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const (
	ActionSend = "message_send"

	maxContentLen       = 2000
	defaultConversation = 50
	maxConversation     = 100
)

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrDependenciesNil  = errors.New("message dependencies are not configured")
)

type Store interface {
	Create(ctx context.Context, senderID, receiverID int64, content string, at time.Time) (model.Message, error)
	ListConversation(ctx context.Context, userA, userB int64, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error)
}

type UserLookup interface {
	Resolve(ctx context.Context, identity auth.Identity) (model.User, error)
	Find(ctx context.Context, userID int64) (model.User, bool, error)
}

type RateLimiter interface {
	Enforce(ctx context.Context, action string, quota ratesvc.Quota, subject ...string) error
}

type ActivityTracker interface {
	Track(ctx context.Context, userID int64, name string, props map[string]any) error
}

type Config struct {
	SendQuota ratesvc.Quota
}

type Service struct {
	store    Store
	users    UserLookup
	limiter  RateLimiter
	activity ActivityTracker
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, users UserLookup, limiter RateLimiter, cfg Config, log *zap.Logger) *Service {
	if cfg.SendQuota.Limit <= 0 || cfg.SendQuota.Window <= 0 {
		cfg.SendQuota = ratesvc.Quota{Limit: 60, Window: time.Hour}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:   store,
		users:   users,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) AttachActivity(activity ActivityTracker) {
	s.activity = activity
}

func (s *Service) Send(ctx context.Context, identity auth.Identity, receiverID int64, content string) (model.Message, error) {
	if s.store == nil || s.users == nil {
		return model.Message{}, ErrDependenciesNil
	}

	current, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return model.Message{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, ActionSend, s.cfg.SendQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return model.Message{}, err
		}
	}

	content = strings.TrimSpace(content)
	var c validate.Collector
	c.Required("content", content)
	c.MaxLen("content", content, maxContentLen)
	if receiverID == current.ID {
		c.Add("receiver_id", "cannot message yourself")
	}
	if err := c.Err(); err != nil {
		return model.Message{}, err
	}

	if _, ok, err := s.users.Find(ctx, receiverID); err != nil {
		return model.Message{}, err
	} else if !ok {
		return model.Message{}, ErrReceiverNotFound
	}

	msg, err := s.store.Create(ctx, current.ID, receiverID, content, s.now().UTC())
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.Track(ctx, receiverID, analytics.EventMessageSent, map[string]any{"message_id": msg.ID, "sender_id": current.ID}); err != nil {
			s.log.Warn("activity event dropped", zap.String("event", analytics.EventMessageSent), zap.Error(err))
		}
	}

	return msg, nil
}

// Conversation returns both directions newest first and marks everything sent to the caller as read.
func (s *Service) Conversation(ctx context.Context, identity auth.Identity, otherID int64, limit int) ([]model.Message, error) {
	if s.store == nil || s.users == nil {
		return nil, ErrDependenciesNil
	}

	current, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListConversation(ctx, current.ID, otherID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	if _, err := s.store.MarkRead(ctx, current.ID, otherID); err != nil {
		return nil, fmt.Errorf("mark conversation read: %w", err)
	}

	return items, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultConversation
	case limit > maxConversation:
		return maxConversation
	default:
		return limit
	}
}
