package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "Authormity/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// identityColumns are overwritten on every successful LinkedIn login.
var identityColumns = []string{
	"linkedin_id",
	"full_name",
	"avatar_url",
	"linkedin_access_token",
	"linkedin_refresh_token",
	"linkedin_token_expires_at",
	"updated_at",
}

// PlanUpdate is a billing-driven plan change.
type PlanUpdate struct {
	Plan       Plan
	Status     PlanStatus
	CustomerID string
	ExpiresAt  *time.Time
	ResetUsage bool
}

// ProfileRepo persists accounts.
type ProfileRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewProfileRepo creates a profile repository.
func NewProfileRepo(d *Data, logger log.Logger) *ProfileRepo {
	return &ProfileRepo{
		db:     d.DB(),
		logger: log.NewHelper(logger),
	}
}

// FindByID returns ErrNotFound when no profile has the id.
func (r *ProfileRepo) FindByID(ctx context.Context, id string) (*Profile, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByLinkedInID looks a profile up by LinkedIn member id.
func (r *ProfileRepo) FindByLinkedInID(ctx context.Context, linkedinID string) (*Profile, error) {
	return r.findOne(ctx, "linkedin_id = ?", linkedinID)
}

// FindByEmail looks a profile up by e-mail.
func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *ProfileRepo) findOne(ctx context.Context, query string, arg interface{}) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Create inserts a profile and returns a classified database error on failure.
func (r *ProfileRepo) Create(ctx context.Context, p *Profile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		if dbErr.Type == pkgerrors.ErrorTypeDuplicateKey {
			r.logger.Warnw("msg", "profile already exists", "id", p.ID, "error", dbErr.Error())
		} else {
			r.logger.Errorw("msg", "failed to create profile", "id", p.ID, "error", dbErr.Error())
		}
		return dbErr
	}

	r.logger.Infow("msg", "profile created", "id", p.ID)
	return nil
}

// UpsertIdentity writes the LinkedIn identity and token columns of p keyed by
// p.ID. An existing row only has identityColumns updated.
func (r *ProfileRepo) UpsertIdentity(ctx context.Context, p *Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(identityColumns),
		}).
		Create(p).Error
	if err != nil {
		return pkgerrors.ClassifyDBError(err)
	}
	return nil
}

// ResetQuotaIfDue zeroes the monthly counter when posts_reset_at <= now and
// moves the reset to next. The condition is evaluated in the UPDATE itself so
// concurrent callers reset at most once.
func (r *ProfileRepo) ResetQuotaIfDue(ctx context.Context, id string, now, next time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ? AND posts_reset_at <= ?", id, now).
		Updates(map[string]interface{}{
			"posts_used_this_month": 0,
			"posts_reset_at":        next,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to reset quota: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IncrementPostsUsed atomically adds one to the monthly counter.
func (r *ProfileRepo) IncrementPostsUsed(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", id).
		Update("posts_used_this_month", gorm.Expr("posts_used_this_month + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment posts used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTokens stores freshly refreshed, already encrypted LinkedIn tokens.
func (r *ProfileRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"linkedin_access_token":     accessToken,
			"linkedin_refresh_token":    refreshToken,
			"linkedin_token_expires_at": expiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteOnboarding stores onboarding answers and sets onboarding_completed.
func (r *ProfileRepo) CompleteOnboarding(ctx context.Context, id, niche string, targetAudience *string) error {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"niche":                niche,
			"target_audience":      targetAudience,
			"onboarding_completed": true,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete onboarding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePlan applies a billing change.
func (r *ProfileRepo) UpdatePlan(ctx context.Context, id string, u PlanUpdate) error {
	updates := map[string]interface{}{
		"plan":        u.Plan,
		"plan_status": u.Status,
	}
	if u.CustomerID != "" {
		updates["billing_customer_id"] = u.CustomerID
	}
	if u.ExpiresAt != nil {
		updates["plan_expires_at"] = *u.ExpiresAt
	}
	if u.ResetUsage {
		updates["posts_used_this_month"] = 0
	}

	result := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.Infow("msg", "plan updated", "account_id", id, "plan", string(u.Plan), "plan_status", string(u.Status))
	return nil
}
