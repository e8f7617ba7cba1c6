package biz

import (
	"context"
	"sync"
	"time"

	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultRequestsPerMinute = 30
	defaultLocalCacheSize    = 10000
	rateWindow               = time.Minute
)

// localWindow is a fixed one-minute window kept in process memory.
type localWindow struct {
	count   int64
	resetAt time.Time
}

// RateLimiterUseCase is the advisory per-account request limiter for
// generation. It counts in Redis and falls back to an in-process LRU when
// Redis is unavailable. It is not a correctness mechanism.
type RateLimiterUseCase struct {
	repo   RateLimitRepo
	limit  int
	mu     sync.Mutex
	local  *expirable.LRU[string, *localWindow]
	now    func() time.Time
	logger *log.Helper
}

// NewRateLimiterUseCase creates a new rate limiter use case.
func NewRateLimiterUseCase(repo RateLimitRepo, c *conf.RateLimit, logger log.Logger) *RateLimiterUseCase {
	limit, size := defaultRequestsPerMinute, defaultLocalCacheSize
	if c != nil {
		if c.RequestsPerMinute > 0 {
			limit = c.RequestsPerMinute
		}
		if c.LocalCacheSize > 0 {
			size = c.LocalCacheSize
		}
	}

	return &RateLimiterUseCase{
		repo:   repo,
		limit:  limit,
		local:  expirable.NewLRU[string, *localWindow](size, nil, rateWindow),
		now:    time.Now,
		logger: log.NewHelper(logger),
	}
}

// CheckRPM counts one request for accountID and returns
// *RateLimitExceededError once the per-minute limit is passed.
func (uc *RateLimiterUseCase) CheckRPM(ctx context.Context, accountID string) error {
	count, retryAfter := uc.increment(ctx, accountID)
	if count > int64(uc.limit) {
		uc.logger.Warnw("msg", "RPM limit exceeded",
			"account_id", accountID,
			"current", count,
			"limit", uc.limit)
		return &RateLimitExceededError{Current: count, Limit: uc.limit, RetryAfter: retryAfter}
	}
	return nil
}

func (uc *RateLimiterUseCase) increment(ctx context.Context, accountID string) (int64, int64) {
	if uc.repo != nil && uc.repo.Available() {
		count, err := uc.repo.IncrementRPM(ctx, accountID)
		if err == nil {
			return count, int64(rateWindow / time.Second)
		}
		// Redis 故障时降级到进程内计数
		uc.logger.Warnw("msg", "redis RPM check failed, using local limiter", "account_id", accountID, "error", err)
	}
	return uc.incrementLocal(accountID)
}

func (uc *RateLimiterUseCase) incrementLocal(accountID string) (int64, int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	w, ok := uc.local.Get(accountID)
	if !ok || !now.Before(w.resetAt) {
		w = &localWindow{resetAt: now.Add(rateWindow)}
		uc.local.Add(accountID, w)
	}
	w.count++

	retryAfter := int64(w.resetAt.Sub(now).Round(time.Second) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return w.count, retryAfter
}
