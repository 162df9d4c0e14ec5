package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const ratePrefix = "rate:"

// incrementWindowScript counts and arms the window expiry in one round trip.
var incrementWindowScript = goredis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

func (r *RateRepo) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window payload")
	}

	values, err := incrementWindowScript.Run(ctx, r.client, []string{ratePrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("increment rate window: %w", err)
	}
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate script reply: %v", values)
	}

	ttl := time.Duration(values[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}

	return values[0], ttl, nil
}
