package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/pkg/validate"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
)

const (
	ActionAvatarUpload = "avatar_upload"

	MaxAvatarBytes = 5 << 20
)

var ErrDependenciesNil = errors.New("media dependencies are not configured")

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UserStore interface {
	SetAvatar(ctx context.Context, userID int64, avatarURL string, at time.Time) error
}

type CallerResolver interface {
	Resolve(ctx context.Context, identity auth.Identity) (model.User, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

type RateLimiter interface {
	Enforce(ctx context.Context, action string, quota ratesvc.Quota, subject ...string) error
}

type ActivityTracker interface {
	Track(ctx context.Context, userID int64, name string, props map[string]any) error
}

type Config struct {
	UploadQuota ratesvc.Quota
}

type Avatar struct {
	URL       string
	ObjectKey string
}

type Service struct {
	users    UserStore
	caller   CallerResolver
	storage  ObjectStorage
	limiter  RateLimiter
	activity ActivityTracker
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(users UserStore, caller CallerResolver, storage ObjectStorage, limiter RateLimiter, cfg Config, log *zap.Logger) *Service {
	if cfg.UploadQuota.Limit <= 0 || cfg.UploadQuota.Window <= 0 {
		cfg.UploadQuota = ratesvc.Quota{Limit: 10, Window: time.Hour}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		users:   users,
		caller:  caller,
		storage: storage,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) AttachActivity(activity ActivityTracker) {
	s.activity = activity
}

// UploadAvatar stores the image and points users.avatar at it. The object is removed again when the row update fails.
func (s *Service) UploadAvatar(ctx context.Context, identity auth.Identity, fileName, contentType string, body io.Reader, size int64) (Avatar, error) {
	if s.users == nil || s.caller == nil || s.storage == nil {
		return Avatar{}, ErrDependenciesNil
	}

	current, err := s.caller.Resolve(ctx, identity)
	if err != nil {
		return Avatar{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, ActionAvatarUpload, s.cfg.UploadQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return Avatar{}, err
		}
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if mediaType, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = strings.TrimSpace(mediaType)
	}

	var c validate.Collector
	ext, supported := avatarExtensions[contentType]
	if !supported {
		c.Add("file", "must be a jpeg, png, webp or gif image")
	}
	if body == nil || size <= 0 {
		c.Add("file", "is required")
	} else if size > MaxAvatarBytes {
		c.Add("file", fmt.Sprintf("must be at most %d bytes", MaxAvatarBytes))
	}
	if err := c.Err(); err != nil {
		return Avatar{}, err
	}

	if fileExt := strings.ToLower(path.Ext(strings.TrimSpace(fileName))); fileExt == ext || (ext == ".jpg" && fileExt == ".jpeg") {
		ext = fileExt
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Avatar{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := fmt.Sprintf("avatars/%d/%s%s", current.ID, s.newID(), ext)
	if err := s.storage.PutObject(ctx, objectKey, body, size, contentType); err != nil {
		return Avatar{}, fmt.Errorf("put object: %w", err)
	}

	avatarURL := s.storage.PublicURL(objectKey)
	if err := s.users.SetAvatar(ctx, current.ID, avatarURL, s.now().UTC()); err != nil {
		if delErr := s.storage.Delete(ctx, objectKey); delErr != nil {
			s.log.Warn("orphaned avatar object", zap.String("object_key", objectKey), zap.Error(delErr))
		}
		return Avatar{}, fmt.Errorf("set avatar: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.Track(ctx, current.ID, analytics.EventAvatarUploaded, map[string]any{"object_key": objectKey}); err != nil {
			s.log.Warn("activity event dropped", zap.String("event", analytics.EventAvatarUploaded), zap.Error(err))
		}
	}

	return Avatar{URL: avatarURL, ObjectKey: objectKey}, nil
}
