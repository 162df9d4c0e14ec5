package connections

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const ActionRequest = "connection_request"

var (
	ErrSelfConnection  = errors.New("cannot connect to yourself")
	ErrAlreadyExists   = errors.New("connection already exists")
	ErrNotFound        = errors.New("connection not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDependenciesNil = errors.New("connection dependencies are not configured")
)

type Store interface {
	FindBetween(ctx context.Context, userA, userB int64) (model.Connection, bool, error)
	Create(ctx context.Context, requesterID, receiverID int64, at time.Time) (model.Connection, error)
	Accept(ctx context.Context, tx pgx.Tx, connectionID, receiverID int64, at time.Time) (model.Connection, error)
	ListAccepted(ctx context.Context, userID int64) ([]model.Connection, error)
}

type CounterStore interface {
	IncrementConnections(ctx context.Context, tx pgx.Tx, userIDs ...int64) error
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
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
	RequestQuota ratesvc.Quota
}

type Dependencies struct {
	Store    Store
	Counters CounterStore
	Tx       TxRunner
	Users    UserLookup
	Limiter  RateLimiter
	Activity ActivityTracker
	Logger   *zap.Logger
}

type Service struct {
	deps Dependencies
	cfg  Config
	log  *zap.Logger
	now  func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.RequestQuota.Limit <= 0 || cfg.RequestQuota.Window <= 0 {
		cfg.RequestQuota = ratesvc.Quota{Limit: 50, Window: time.Hour}
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

func (s *Service) Request(ctx context.Context, identity auth.Identity, targetID int64) (model.Connection, error) {
	if s.deps.Store == nil || s.deps.Users == nil {
		return model.Connection{}, ErrDependenciesNil
	}

	current, err := s.deps.Users.Resolve(ctx, identity)
	if err != nil {
		return model.Connection{}, err
	}
	if current.ID == targetID {
		return model.Connection{}, ErrSelfConnection
	}

	if s.deps.Limiter != nil {
		if err := s.deps.Limiter.Enforce(ctx, ActionRequest, s.cfg.RequestQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return model.Connection{}, err
		}
	}

	if _, ok, err := s.deps.Users.Find(ctx, targetID); err != nil {
		return model.Connection{}, err
	} else if !ok {
		return model.Connection{}, ErrUserNotFound
	}

	if _, exists, err := s.deps.Store.FindBetween(ctx, current.ID, targetID); err != nil {
		return model.Connection{}, fmt.Errorf("find existing connection: %w", err)
	} else if exists {
		return model.Connection{}, ErrAlreadyExists
	}

	conn, err := s.deps.Store.Create(ctx, current.ID, targetID, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionExists) {
			return model.Connection{}, ErrAlreadyExists
		}
		return model.Connection{}, fmt.Errorf("create connection: %w", err)
	}

	s.track(ctx, targetID, analytics.EventConnectionRequested, map[string]any{"connection_id": conn.ID, "requester_id": current.ID})
	return conn, nil
}

// Accept flips a pending request addressed to the caller and bumps both counters in one transaction.
func (s *Service) Accept(ctx context.Context, identity auth.Identity, connectionID int64) (model.Connection, error) {
	if s.deps.Store == nil || s.deps.Users == nil || s.deps.Counters == nil || s.deps.Tx == nil {
		return model.Connection{}, ErrDependenciesNil
	}

	current, err := s.deps.Users.Resolve(ctx, identity)
	if err != nil {
		return model.Connection{}, err
	}
	if connectionID <= 0 {
		return model.Connection{}, ErrNotFound
	}

	var accepted model.Connection
	err = s.deps.Tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		conn, err := s.deps.Store.Accept(ctx, tx, connectionID, current.ID, s.now().UTC())
		if err != nil {
			return err
		}
		if err := s.deps.Counters.IncrementConnections(ctx, tx, conn.RequesterID, conn.ReceiverID); err != nil {
			return err
		}
		accepted = conn
		return nil
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return model.Connection{}, ErrNotFound
		}
		return model.Connection{}, fmt.Errorf("accept connection: %w", err)
	}

	s.track(ctx, accepted.RequesterID, analytics.EventConnectionAccepted, map[string]any{"connection_id": accepted.ID, "receiver_id": current.ID})
	return accepted, nil
}

func (s *Service) ListAccepted(ctx context.Context, identity auth.Identity) ([]model.Connection, error) {
	if s.deps.Store == nil || s.deps.Users == nil {
		return nil, ErrDependenciesNil
	}

	current, err := s.deps.Users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	items, err := s.deps.Store.ListAccepted(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return items, nil
}

func (s *Service) track(ctx context.Context, userID int64, name string, props map[string]any) {
	if s.deps.Activity == nil {
		return
	}
	if err := s.deps.Activity.Track(ctx, userID, name, props); err != nil {
		s.log.Warn("activity event dropped", zap.String("event", name), zap.Int64("user_id", userID), zap.Error(err))
	}
}
