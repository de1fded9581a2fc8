package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuretrove/ledger/pkg/config"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()}, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		short    bool
		wantPool int
		wantIdle int
		wantDB   int
		wantErr  bool
	}{
		{name: "service pool", url: "redis://cache.home:6379/2", wantPool: servicePoolSize, wantIdle: 2, wantDB: 2},
		{name: "cli pool", url: "redis://cache.home:6379", short: true, wantPool: cliPoolSize, wantIdle: 0},
		{name: "empty", url: "", wantErr: true},
		{name: "bad scheme", url: "not-a-valid-url", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.url, tt.short)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cache.home:6379", opts.Addr)
			assert.Equal(t, tt.wantPool, opts.PoolSize)
			assert.Equal(t, tt.wantIdle, opts.MinIdleConns)
			assert.Equal(t, tt.wantDB, opts.DB)
			assert.Equal(t, connectTimeout, opts.DialTimeout)
		})
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + addr}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestRedisClient_PingAddrClose(t *testing.T) {
	rc, mr := newTestClient(t)
	require.NoError(t, rc.Ping(context.Background()))
	assert.Equal(t, mr.Addr(), rc.Addr())
	require.NotNil(t, rc.Client())

	var nilClient *RedisClient
	assert.NoError(t, nilClient.Close())
}

func TestContainerCache(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestClient(t)
	c := NewContainerCache(rc)

	t.Run("miss returns redis.Nil", func(t *testing.T) {
		_, err := c.Get(ctx)
		assert.True(t, errors.Is(err, redis.Nil))
	})

	kind := "bin"
	want := []CachedContainer{
		{ID: uuid.New(), Name: "Autumn", Kind: &kind, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Name: "Garage shelf", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("set then get preserves order", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, want))
		got, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, ContainerListTTL, mr.TTL(containerListKey))
	})

	t.Run("invalidate drops the list", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx))
		_, err := c.Get(ctx)
		assert.True(t, errors.Is(err, redis.Nil))
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, want))
		mr.FastForward(ContainerListTTL + time.Second)
		_, err := c.Get(ctx)
		assert.True(t, errors.Is(err, redis.Nil))
	})
}
