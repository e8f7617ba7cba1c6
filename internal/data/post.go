package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// PostRepo persists posts for the scheduled publisher.
type PostRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewPostRepo creates a post repository.
func NewPostRepo(d *Data, logger log.Logger) *PostRepo {
	return &PostRepo{db: d.DB(), logger: log.NewHelper(logger)}
}

// ListDue returns scheduled posts with scheduled_at in [from, to], oldest first.
func (r *PostRepo) ListDue(ctx context.Context, from, to time.Time) ([]*Post, error) {
	var posts []*Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at >= ? AND scheduled_at <= ?", PostStatusScheduled, from, to).
		Order("scheduled_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due posts: %w", err)
	}
	return posts, nil
}

// MarkPublished records a successful publication.
func (r *PostRepo) MarkPublished(ctx context.Context, id, linkedinPostID string, publishedAt time.Time) error {
	return r.updateStatus(ctx, id, map[string]interface{}{
		"status":           PostStatusPublished,
		"published_at":     publishedAt,
		"linkedin_post_id": linkedinPostID,
	})
}

// MarkFailed records a failed publication.
func (r *PostRepo) MarkFailed(ctx context.Context, id string) error {
	return r.updateStatus(ctx, id, map[string]interface{}{"status": PostStatusFailed})
}

func (r *PostRepo) updateStatus(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update post %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
