package connections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

type storeStub struct {
	conns     map[int64]model.Connection
	createErr error
	nextID    int64
}

func newStoreStub(conns ...model.Connection) *storeStub {
	s := &storeStub{conns: map[int64]model.Connection{}, nextID: 100}
	for _, c := range conns {
		s.conns[c.ID] = c
	}
	return s
}

func (s *storeStub) FindBetween(_ context.Context, a, b int64) (model.Connection, bool, error) {
	for _, c := range s.conns {
		if (c.RequesterID == a && c.ReceiverID == b) || (c.RequesterID == b && c.ReceiverID == a) {
			return c, true, nil
		}
	}
	return model.Connection{}, false, nil
}

func (s *storeStub) Create(_ context.Context, requesterID, receiverID int64, at time.Time) (model.Connection, error) {
	if s.createErr != nil {
		return model.Connection{}, s.createErr
	}
	s.nextID++
	c := model.Connection{ID: s.nextID, RequesterID: requesterID, ReceiverID: receiverID, Status: enums.ConnectionStatusPending, CreatedAt: at, UpdatedAt: at}
	s.conns[c.ID] = c
	return c, nil
}

func (s *storeStub) Accept(_ context.Context, _ pgx.Tx, connectionID, receiverID int64, at time.Time) (model.Connection, error) {
	c, ok := s.conns[connectionID]
	if !ok || c.ReceiverID != receiverID || c.Status != enums.ConnectionStatusPending {
		return model.Connection{}, pgrepo.ErrConnectionNotFound
	}
	c.Status = enums.ConnectionStatusAccepted
	c.UpdatedAt = at
	s.conns[c.ID] = c
	return c, nil
}

func (s *storeStub) ListAccepted(_ context.Context, userID int64) ([]model.Connection, error) {
	out := make([]model.Connection, 0)
	for _, c := range s.conns {
		if c.Status == enums.ConnectionStatusAccepted && (c.RequesterID == userID || c.ReceiverID == userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

type counterStub struct {
	incremented []int64
	err         error
}

func (c *counterStub) IncrementConnections(_ context.Context, _ pgx.Tx, userIDs ...int64) error {
	if c.err != nil {
		return c.err
	}
	c.incremented = append(c.incremented, userIDs...)
	return nil
}

type txStub struct {
	calls int
}

func (t *txStub) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	t.calls++
	return fn(ctx, nil)
}

type usersStub struct{}

func (usersStub) Resolve(_ context.Context, identity auth.Identity) (model.User, error) {
	switch identity.Subject {
	case "idp|1":
		return model.User{ID: 1}, nil
	case "idp|2":
		return model.User{ID: 2}, nil
	default:
		return model.User{}, auth.ErrUnauthorized
	}
}

func (usersStub) Find(_ context.Context, userID int64) (model.User, bool, error) {
	if userID == 1 || userID == 2 || userID == 3 {
		return model.User{ID: userID}, true, nil
	}
	return model.User{}, false, nil
}

type limiterStub struct {
	err error
}

func (l limiterStub) Enforce(context.Context, string, ratesvc.Quota, ...string) error {
	return l.err
}

func newTestService(store *storeStub, counters *counterStub, tx *txStub, limiter RateLimiter) *Service {
	return NewService(Dependencies{
		Store:    store,
		Counters: counters,
		Tx:       tx,
		Users:    usersStub{},
		Limiter:  limiter,
	}, Config{})
}

func TestRequestConnection(t *testing.T) {
	store := newStoreStub()
	svc := newTestService(store, &counterStub{}, &txStub{}, limiterStub{})

	conn, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 2)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if conn.RequesterID != 1 || conn.ReceiverID != 2 || conn.Status != enums.ConnectionStatusPending {
		t.Fatalf("unexpected connection: %+v", conn)
	}
}

func TestRequestConnectionRejectsSelf(t *testing.T) {
	svc := newTestService(newStoreStub(), &counterStub{}, &txStub{}, limiterStub{})
	if _, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 1); !errors.Is(err, ErrSelfConnection) {
		t.Fatalf("expected ErrSelfConnection, got %v", err)
	}
}

func TestRequestConnectionUnknownTarget(t *testing.T) {
	svc := newTestService(newStoreStub(), &counterStub{}, &txStub{}, limiterStub{})
	if _, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRequestConnectionExistingEitherDirection(t *testing.T) {
	store := newStoreStub(model.Connection{ID: 1, RequesterID: 2, ReceiverID: 1, Status: enums.ConnectionStatusPending})
	svc := newTestService(store, &counterStub{}, &txStub{}, limiterStub{})

	if _, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 2); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRequestConnectionUniqueViolationRace(t *testing.T) {
	store := newStoreStub()
	store.createErr = pgrepo.ErrConnectionExists
	svc := newTestService(store, &counterStub{}, &txStub{}, limiterStub{})

	if _, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 3); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRequestConnectionRateLimited(t *testing.T) {
	store := newStoreStub()
	svc := newTestService(store, &counterStub{}, &txStub{}, limiterStub{err: ratesvc.LimitError{Action: ActionRequest}})

	if _, err := svc.Request(context.Background(), auth.Identity{Subject: "idp|1"}, 2); err == nil {
		t.Fatalf("expected limit error")
	}
	if len(store.conns) != 0 {
		t.Fatalf("nothing must be created")
	}
}

func TestAcceptConnection(t *testing.T) {
	store := newStoreStub(model.Connection{ID: 7, RequesterID: 1, ReceiverID: 2, Status: enums.ConnectionStatusPending})
	counters := &counterStub{}
	tx := &txStub{}
	svc := newTestService(store, counters, tx, limiterStub{})

	conn, err := svc.Accept(context.Background(), auth.Identity{Subject: "idp|2"}, 7)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if conn.Status != enums.ConnectionStatusAccepted {
		t.Fatalf("unexpected status: %s", conn.Status)
	}
	if tx.calls != 1 {
		t.Fatalf("accept must run in one transaction")
	}
	if len(counters.incremented) != 2 || counters.incremented[0] != 1 || counters.incremented[1] != 2 {
		t.Fatalf("both counters must be incremented: %v", counters.incremented)
	}

	list, err := svc.ListAccepted(context.Background(), auth.Identity{Subject: "idp|1"})
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected accepted list: %v err=%v", list, err)
	}
}

func TestAcceptConnectionOnlyReceiver(t *testing.T) {
	store := newStoreStub(model.Connection{ID: 7, RequesterID: 1, ReceiverID: 2, Status: enums.ConnectionStatusPending})
	counters := &counterStub{}
	svc := newTestService(store, counters, &txStub{}, limiterStub{})

	if _, err := svc.Accept(context.Background(), auth.Identity{Subject: "idp|1"}, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("requester must not accept, got %v", err)
	}
	if len(counters.incremented) != 0 {
		t.Fatalf("counters must not change")
	}
}

func TestAcceptConnectionCounterFailure(t *testing.T) {
	store := newStoreStub(model.Connection{ID: 7, RequesterID: 1, ReceiverID: 2, Status: enums.ConnectionStatusPending})
	counterErr := errors.New("deadlock detected")
	svc := newTestService(store, &counterStub{err: counterErr}, &txStub{}, limiterStub{})

	if _, err := svc.Accept(context.Background(), auth.Identity{Subject: "idp|2"}, 7); !errors.Is(err, counterErr) {
		t.Fatalf("expected counter error, got %v", err)
	}
}
