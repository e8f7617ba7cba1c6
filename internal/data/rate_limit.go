package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// RateLimitRepo keeps fixed-window request counters in Redis.
type RateLimitRepo struct {
	rdb    *redis.Client
	logger *log.Helper
}

// NewRateLimitRepo creates a rate limit repository.
func NewRateLimitRepo(rdb *redis.Client, logger log.Logger) *RateLimitRepo {
	return &RateLimitRepo{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

// Available reports whether Redis is configured.
func (r *RateLimitRepo) Available() bool {
	return r.rdb != nil
}

// IncrementRPM adds one to the per-minute counter of an account and returns the new count.
// The key (rate:{account}:rpm) expires one minute after the first hit of the window.
func (r *RateLimitRepo) IncrementRPM(ctx context.Context, accountID string) (int64, error) {
	if r.rdb == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	key := BuildCacheKey(CacheKeyRate, accountID, "rpm")

	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment RPM: %w", err)
	}

	if count == 1 {
		if err := r.rdb.Expire(ctx, key, TTLRate).Err(); err != nil {
			r.logger.Warnw("msg", "failed to set RPM expiration", "account_id", accountID, "error", err)
		}
	}

	return count, nil
}
