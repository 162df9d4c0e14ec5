package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/infra/events"
)

const defaultMaxBatchSize = 100

const (
	EventProfileViewed          = "profile.viewed"
	EventProfileUpdated         = "profile.updated"
	EventAvatarUploaded         = "profile.avatar_uploaded"
	EventAchievementCreated     = "achievement.created"
	EventExtracurricularCreated = "extracurricular.created"
	EventConnectionRequested    = "connection.requested"
	EventConnectionAccepted     = "connection.accepted"
	EventMessageSent            = "message.sent"
)

var ErrValidation = errors.New("validation error")

type Publisher interface {
	Publish(ctx context.Context, msgs ...events.Message) error
}

type PublishObserver interface {
	ObserveEventPublished(name string, ok bool)
}

type Config struct {
	MaxBatchSize int
}

type Event struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Source     string         `json:"source"`
	UserID     int64          `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Props      map[string]any `json:"props,omitempty"`
}

type BatchEvent struct {
	Name  string
	TS    int64
	Props map[string]any
}

type Service struct {
	publisher Publisher
	observer  PublishObserver
	cfg       Config
	now       func() time.Time
	newID     func() string
}

func NewService(publisher Publisher, cfg Config) *Service {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}

	return &Service{
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) AttachObserver(observer PublishObserver) {
	s.observer = observer
}

// Track publishes one server-side activity event.
func (s *Service) Track(ctx context.Context, userID int64, name string, props map[string]any) error {
	if s == nil || s.publisher == nil {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation
	}

	msg, err := s.encode(Event{
		Name:       name,
		Source:     "server",
		UserID:     userID,
		OccurredAt: s.now().UTC(),
		Props:      cloneProps(props),
	})
	if err != nil {
		return err
	}

	err = s.publisher.Publish(ctx, msg)
	s.observe(name, err == nil)
	if err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}

	return nil
}

// IngestBatch forwards a batch of client events. The whole batch is rejected when any event is invalid.
func (s *Service) IngestBatch(ctx context.Context, userID int64, batch []BatchEvent) error {
	if s.publisher == nil {
		return fmt.Errorf("analytics publisher is nil")
	}
	if len(batch) == 0 || len(batch) > s.cfg.MaxBatchSize {
		return ErrValidation
	}

	now := s.now().UTC()
	msgs := make([]events.Message, 0, len(batch))
	names := make([]string, 0, len(batch))
	for _, item := range batch {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return ErrValidation
		}

		msg, err := s.encode(Event{
			Name:       name,
			Source:     "client",
			UserID:     userID,
			OccurredAt: parseTS(item.TS, now),
			Props:      cloneProps(item.Props),
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		names = append(names, name)
	}

	err := s.publisher.Publish(ctx, msgs...)
	for _, name := range names {
		s.observe(name, err == nil)
	}
	if err != nil {
		return fmt.Errorf("publish events batch: %w", err)
	}

	return nil
}

func (s *Service) encode(event Event) (events.Message, error) {
	event.ID = s.newID()
	payload, err := json.Marshal(event)
	if err != nil {
		return events.Message{}, fmt.Errorf("encode %s event: %w", event.Name, err)
	}
	return events.Message{
		Key:   strconv.FormatInt(event.UserID, 10),
		Value: payload,
		Time:  event.OccurredAt,
	}, nil
}

func (s *Service) observe(name string, ok bool) {
	if s.observer != nil {
		s.observer.ObserveEventPublished(name, ok)
	}
}

func parseTS(ts int64, fallback time.Time) time.Time {
	if ts <= 0 {
		return fallback
	}
	if ts >= 1_000_000_000_000 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

func cloneProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
