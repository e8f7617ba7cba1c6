package biz

import (
	"testing"

	"Authormity/internal/data"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newStoreData opens a migrated in-memory SQLite store without Redis.
func newStoreData(t *testing.T) (*data.Data, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(data.AllModels()...))

	d, cleanup, err := data.NewData(nil, testLogger, db, nil, data.NewCacheClient(nil))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return d, db
}
