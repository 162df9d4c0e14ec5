package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidQuota = errors.New("invalid rate quota")

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// DecisionObserver is notified about every decision, e.g. to export metrics.
type DecisionObserver interface {
	ObserveRateDecision(action string, allowed bool)
}

type Quota struct {
	Limit  int
	Window time.Duration
}

func (q Quota) String() string {
	return fmt.Sprintf("%d per %s", q.Limit, humanWindow(q.Window))
}

type Decision struct {
	Allowed       bool
	Remaining     int
	RetryAfterSec int64
}

// LimitError reports an exhausted quota for one action.
type LimitError struct {
	Action        string
	Quota         Quota
	RetryAfterSec int64
}

func (e LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s", e.Action, e.Quota)
}

func (e LimitError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsLimited(err error) (*LimitError, bool) {
	var le LimitError
	if errors.As(err, &le) {
		return &le, true
	}
	return nil, false
}

type Limiter struct {
	store    WindowStore
	observer DecisionObserver
}

func NewLimiter(store WindowStore) *Limiter {
	return &Limiter{store: store}
}

func (l *Limiter) AttachObserver(observer DecisionObserver) {
	l.observer = observer
}

// Check consumes one slot of the fixed window identified by key.
func (l *Limiter) Check(ctx context.Context, key string, quota Quota) (Decision, error) {
	if strings.TrimSpace(key) == "" {
		return Decision{}, fmt.Errorf("rate key is required")
	}
	if quota.Limit <= 0 || quota.Window <= 0 {
		return Decision{}, fmt.Errorf("%s: %w", quota, ErrInvalidQuota)
	}
	if l == nil || l.store == nil {
		return Decision{}, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key, quota.Window)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Allowed:   count <= int64(quota.Limit),
		Remaining: maxInt(quota.Limit-int(count), 0),
	}
	if !decision.Allowed {
		decision.RetryAfterSec = ceilSeconds(ttl)
	}

	if l.observer != nil {
		l.observer.ObserveRateDecision(actionOf(key), decision.Allowed)
	}

	return decision, nil
}

// Enforce checks the key built from action and subject and turns an exhausted window into a LimitError.
func (l *Limiter) Enforce(ctx context.Context, action string, quota Quota, subject ...string) error {
	decision, err := l.Check(ctx, BuildKey(append([]string{action}, subject...)...), quota)
	if err != nil {
		return fmt.Errorf("check %s rate limit: %w", action, err)
	}
	if !decision.Allowed {
		return LimitError{
			Action:        action,
			Quota:         quota,
			RetryAfterSec: decision.RetryAfterSec,
		}
	}
	return nil
}

// BuildKey joins key parts with colons: BuildKey("profile_view", "1.2.3.4", "42").
func BuildKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func actionOf(key string) string {
	action, _, _ := strings.Cut(key, ":")
	return action
}

func humanWindow(d time.Duration) string {
	switch d {
	case time.Hour:
		return "hour"
	case time.Minute:
		return "minute"
	case 24 * time.Hour:
		return "day"
	default:
		return d.String()
	}
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
