package redis

import (
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type ClientOptions struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// NewClient prefers URL (redis:// or rediss://) over the discrete address fields.
func NewClient(opts ClientOptions) (*goredis.Client, error) {
	if url := strings.TrimSpace(opts.URL); url != "" {
		parsed, err := goredis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		parsed.ReadTimeout = 5 * time.Second
		parsed.WriteTimeout = 5 * time.Second
		return goredis.NewClient(parsed), nil
	}

	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	return goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}), nil
}
