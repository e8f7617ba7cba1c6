// Package data provides the persistence layer: gorm repositories over MySQL
// or SQLite, and Redis for caching and rate-limit counters.
package data

import (
	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewDB,
	NewRedisClient,
	NewCacheClient,
	NewProfileRepo,
	NewVoiceProfileRepo,
	NewClientRepo,
	NewPostRepo,
	NewUsageLogRepo,
	NewRateLimitRepo,
)

// Data holds shared data-layer handles.
type Data struct {
	db          *gorm.DB
	redisClient *redis.Client
	cache       CacheClient
}

// NewData creates a Data. A nil Redis client is allowed.
func NewData(_ *conf.Data, logger log.Logger, db *gorm.DB, rdb *redis.Client, cache CacheClient) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	if rdb == nil {
		helper.Warn("Redis client is nil, caching will be unavailable")
	}

	d := &Data{db: db, redisClient: rdb, cache: cache}

	cleanup := func() {
		helper.Info("closing the data resources")
	}

	return d, cleanup, nil
}

// DB returns the gorm handle.
func (d *Data) DB() *gorm.DB {
	return d.db
}

// GetCache returns the cache client.
func (d *Data) GetCache() CacheClient {
	return d.cache
}

// GetRedisClient returns the Redis client, which may be nil.
func (d *Data) GetRedisClient() *redis.Client {
	return d.redisClient
}
