package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageLogRepo appends usage log rows. Rows are never updated or deleted.
type UsageLogRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewUsageLogRepo creates a usage log repository.
func NewUsageLogRepo(d *Data, logger log.Logger) *UsageLogRepo {
	return &UsageLogRepo{db: d.DB(), logger: log.NewHelper(logger)}
}

// Append inserts entry, assigning an id when empty.
func (r *UsageLogRepo) Append(ctx context.Context, entry *UsageLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append usage log: %w", err)
	}
	return nil
}

// CountByAction returns how many rows exist for a user and action.
func (r *UsageLogRepo) CountByAction(ctx context.Context, userID, action string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UsageLog{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count usage logs: %w", err)
	}
	return n, nil
}
