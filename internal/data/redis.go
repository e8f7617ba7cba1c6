package data

import (
	"context"
	"time"

	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client.
// An empty address or a failed ping returns a nil client: callers degrade to
// uncached reads and the in-process rate limiter.
func NewRedisClient(c *conf.Data, logger log.Logger) (*redis.Client, func(), error) {
	helper := log.NewHelper(logger)

	if c == nil || c.Redis == nil || c.Redis.Addr == "" {
		helper.Warn("Redis address is empty, running without Redis")
		return nil, func() {}, nil
	}

	network := c.Redis.Network
	if network == "" {
		network = "tcp"
	}

	rdb := redis.NewClient(&redis.Options{
		Network:         network,
		Addr:            c.Redis.Addr,
		Password:        c.Redis.Password,
		DB:              c.Redis.DB,
		PoolSize:        100,
		MinIdleConns:    10,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     c.Redis.ReadTimeout,
		WriteTimeout:    c.Redis.WriteTimeout,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		helper.Warnw("msg", "Redis unavailable, running without Redis", "addr", c.Redis.Addr, "error", err)
		_ = rdb.Close()
		return nil, func() {}, nil
	}

	helper.Infow("msg", "connected to Redis", "addr", c.Redis.Addr)

	cleanup := func() {
		helper.Info("closing Redis client")
		if err := rdb.Close(); err != nil {
			helper.Errorf("failed to close Redis client: %v", err)
		}
	}

	return rdb, cleanup, nil
}
