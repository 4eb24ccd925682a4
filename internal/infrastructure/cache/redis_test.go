package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/config"
)

func setupTestRedis(t *testing.T) (*redisCache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		URL:          mr.Addr(),
		DB:           0,
		PoolSize:     5,
		MinIdleConns: 1,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	c, err := NewRedisCache(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	cleanup := func() {
		c.Close()
		mr.Close()
	}

	return c.(*redisCache), mr, cleanup
}

func TestNewRedisCache(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		c, _, cleanup := setupTestRedis(t)
		defer cleanup()

		assert.NotNil(t, c.client)
		assert.NotNil(t, c.logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewRedisCache(&config.RedisConfig{URL: "localhost:6379"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewRedisCache(nil, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis config is required")
	})

	t.Run("connection failure", func(t *testing.T) {
		cfg := &config.RedisConfig{
			URL:         "localhost:1", // nothing listens here
			DialTimeout: 100 * time.Millisecond,
		}
		_, err := NewRedisCache(cfg, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis connection failed")
	})
}

func TestRedisCache_GetSet(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, ResultPrefix+"abc", "payload", time.Minute))

	got, err := c.Get(ctx, ResultPrefix+"abc")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	mr.FastForward(2 * time.Minute)

	_, err = c.Get(ctx, ResultPrefix+"abc")
	var notFound ErrCacheKeyNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ResultPrefix+"abc", notFound.Key)
}

func TestRedisCache_JSONRoundTrip(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	type entry struct {
		AccountID string  `json:"account_id"`
		Total     float64 `json:"total"`
	}

	in := entry{AccountID: "A-100", Total: 31.2}
	require.NoError(t, c.SetJSON(ctx, "k", in, time.Minute))

	var out entry
	require.NoError(t, c.GetJSON(ctx, "k", &out))
	assert.Equal(t, in, out)

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "bad", "{not json", time.Minute))
		var out entry
		err := c.GetJSON(ctx, "bad", &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "json unmarshal failed")
	})
}

func TestRedisCache_DeleteExistsPing(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))

	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Ping(ctx))
}
