// Package cache holds the optional Redis layer: the shared client, the cached
// container list, and (through Client) the session backend.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/treasuretrove/ledger/pkg/config"
)

// Pool sizing. Long-running processes keep a few idle connections for the
// form and session lookups; the CLI makes a handful of calls and exits.
const (
	servicePoolSize = 10
	cliPoolSize     = 2
	connectTimeout  = 2 * time.Second
)

// RedisClient is the process-wide Redis connection pool.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to cfg.RedisURL and pings it within ctx (bounded
// to two seconds). short selects the small pool used by one-shot commands.
// Callers skip it entirely when RedisURL is empty.
func NewRedisClient(ctx context.Context, cfg *config.Config, short bool) (*RedisClient, error) {
	opts, err := redisOptions(cfg.RedisURL, short)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: connect %s: %w", opts.Addr, err)
	}
	return &RedisClient{client: rdb}, nil
}

func redisOptions(url string, short bool) (*redis.Options, error) {
	if url == "" {
		return nil, errors.New("cache: redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis URL: %w", err)
	}

	opts.PoolSize = servicePoolSize
	opts.MinIdleConns = 2
	if short {
		opts.PoolSize = cliPoolSize
		opts.MinIdleConns = 0
	}
	opts.MaxRetries = 3
	opts.DialTimeout = connectTimeout
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.PoolTimeout = 2 * time.Second
	return opts, nil
}

// Addr is the host:port the pool connects to.
func (r *RedisClient) Addr() string {
	return r.client.Options().Addr
}

// Ping satisfies httpx.HealthChecker.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping: %w", err)
	}
	return nil
}

// Close is safe on a nil client so callers can defer it unconditionally.
func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("cache: close: %w", err)
	}
	return nil
}

// Client exposes the pool to the container cache and the session store.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
