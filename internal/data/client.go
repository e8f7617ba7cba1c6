package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// ClientRepo reads ghostwriting clients.
type ClientRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewClientRepo creates a client repository.
func NewClientRepo(d *Data, logger log.Logger) *ClientRepo {
	return &ClientRepo{db: d.DB(), logger: log.NewHelper(logger)}
}

// GetForUser returns the client only when it belongs to userID.
// A client owned by someone else is reported as ErrNotFound.
func (r *ClientRepo) GetForUser(ctx context.Context, clientID, userID string) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		Take(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}
