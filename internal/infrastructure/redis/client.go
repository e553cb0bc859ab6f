package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/focusflow/backend/internal/config"
)

// Timeouts sized for the session lookups the auth middleware performs on
// every protected request.
const (
	dialTimeout  = 3 * time.Second
	opTimeout    = 2 * time.Second
	pingTimeout  = 5 * time.Second
	maxRetries   = 2
	retryBackoff = 100 * time.Millisecond
)

// NewClient creates the Redis client backing sessions and one-time tokens,
// and verifies connectivity before returning it.
func NewClient(cfg config.RedisConfig) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	opts.ClientName = "focusflow-backend"
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout
	opts.MaxRetries = maxRetries
	opts.MaxRetryBackoff = retryBackoff

	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
