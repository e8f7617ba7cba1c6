package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceProfileRepo persists voice profiles. An account's own profile
// (client_id IS NULL) is cached under voice:{accountId}.
type VoiceProfileRepo struct {
	db     *gorm.DB
	cache  CacheClient
	logger *log.Helper
}

// NewVoiceProfileRepo creates a voice profile repository.
func NewVoiceProfileRepo(d *Data, logger log.Logger) *VoiceProfileRepo {
	return &VoiceProfileRepo{
		db:     d.DB(),
		cache:  d.GetCache(),
		logger: log.NewHelper(logger),
	}
}

// GetOwn returns the account's own voice profile, or ErrNotFound.
func (r *VoiceProfileRepo) GetOwn(ctx context.Context, userID string) (*VoiceProfile, error) {
	cacheKey := BuildCacheKey(CacheKeyVoice, userID)

	var cached VoiceProfile
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
		r.logger.Debugw("msg", "voice profile cache hit", "account_id", userID)
		return &cached, nil
	}

	var vp VoiceProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND client_id IS NULL", userID).
		Take(&vp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get voice profile: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, &vp, TTLVoice); err != nil {
		r.logger.Debugw("msg", "failed to cache voice profile", "account_id", userID, "error", err)
	}

	return &vp, nil
}

// GetByID loads a voice profile by primary key.
func (r *VoiceProfileRepo) GetByID(ctx context.Context, id string) (*VoiceProfile, error) {
	var vp VoiceProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&vp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get voice profile: %w", err)
	}
	return &vp, nil
}

// UpsertOwn replaces the account's own voice profile and drops the cache entry.
func (r *VoiceProfileRepo) UpsertOwn(ctx context.Context, vp *VoiceProfile) error {
	vp.ClientID = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing VoiceProfile
		err := tx.Where("user_id = ? AND client_id IS NULL", vp.UserID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if vp.ID == "" {
				vp.ID = uuid.NewString()
			}
			return tx.Create(vp).Error
		case err != nil:
			return err
		}

		vp.ID = existing.ID
		vp.CreatedAt = existing.CreatedAt
		return tx.Save(vp).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save voice profile: %w", err)
	}

	if err := r.cache.Delete(ctx, BuildCacheKey(CacheKeyVoice, vp.UserID)); err != nil {
		r.logger.Debugw("msg", "failed to invalidate voice cache", "account_id", vp.UserID, "error", err)
	}
	return nil
}
