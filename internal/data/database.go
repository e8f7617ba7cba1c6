package data

import (
	"fmt"
	"time"

	"Authormity/internal/conf"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured database. Driver "mysql" is used in production;
// "sqlite" (pure Go, no cgo) is for local runs.
func NewDB(c *conf.Data, l log.Logger) (*gorm.DB, func(), error) {
	helper := log.NewHelper(l)

	if c == nil || c.Database == nil {
		return nil, nil, fmt.Errorf("database configuration is required")
	}

	var dialector gorm.Dialector
	switch c.Database.Driver {
	case "mysql", "":
		dialector = mysql.Open(c.Database.Source)
	case "sqlite":
		dialector = sqlite.Open(c.Database.Source)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&gormLogAdapter{helper: helper}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", c.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if c.Database.Driver == "sqlite" {
		// SQLite 只允许单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(orDefault(c.Database.MaxIdleConns, 10))
		sqlDB.SetMaxOpenConns(orDefault(c.Database.MaxOpenConns, 100))
		if c.Database.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(c.Database.ConnMaxLifetime)
		}
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if c.Database.AutoMigrate {
		if err := db.AutoMigrate(AllModels()...); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("auto migrate: %w", err)
		}
		helper.Info("database schema migrated")
	}

	helper.Infow("msg", "database connection established", "driver", c.Database.Driver)

	cleanup := func() {
		helper.Info("closing database connection")
		if err := sqlDB.Close(); err != nil {
			helper.Errorf("failed to close database: %v", err)
		}
	}

	return db, cleanup, nil
}

// gormLogAdapter adapts Kratos log.Helper to the GORM logger writer.
type gormLogAdapter struct {
	helper *log.Helper
}

// Printf implements gorm/logger.Writer.
func (g *gormLogAdapter) Printf(format string, v ...interface{}) {
	g.helper.Warnf(format, v...)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
