package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

const reasonProfileNotFound = "Profile not found"

// QuotaStatus is the result of a quota check.
type QuotaStatus struct {
	Allowed bool
	Reason  string
	Used    int
	Limit   int // Unlimited for paid tiers
}

// PlanSummary describes an account's plan for display.
type PlanSummary struct {
	Plan       data.Plan
	Status     data.PlanStatus
	Used       int
	Limit      int
	ResetAt    time.Time
	ExpiresAt  *time.Time
	Features   []Feature
	Onboarding bool
}

// QuotaManager enforces the monthly generation allowance.
type QuotaManager struct {
	repo   ProfileRepo
	now    func() time.Time
	logger *log.Helper
}

// NewQuotaManager creates a quota manager.
func NewQuotaManager(repo ProfileRepo, logger log.Logger) *QuotaManager {
	return &QuotaManager{
		repo:   repo,
		now:    time.Now,
		logger: log.NewHelper(logger),
	}
}

// CheckCanGenerate reports whether the account may consume one more generation.
// A missing account is a denial, not an error.
func (q *QuotaManager) CheckCanGenerate(ctx context.Context, accountID string) (*QuotaStatus, error) {
	p, err := q.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &QuotaStatus{Allowed: false, Reason: reasonProfileNotFound}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	limit := MonthlyLimit(p.Plan)
	status := &QuotaStatus{Allowed: true, Used: p.PostsUsedThisMonth, Limit: limit}
	if limit == Unlimited {
		return status, nil
	}

	if p.PostsUsedThisMonth >= limit {
		status.Allowed = false
		status.Reason = fmt.Sprintf("You've used all %d generations for this month. Upgrade to Pro for unlimited.", limit)
		q.logger.Infow("msg", "quota exhausted", "account_id", accountID, "used", p.PostsUsedThisMonth, "limit", limit)
	}
	return status, nil
}

// ResetIfDue zeroes the counter once the stored reset time has passed and
// schedules the next reset for the first instant of the following month.
func (q *QuotaManager) ResetIfDue(ctx context.Context, accountID string) (bool, error) {
	now := q.now().UTC()
	reset, err := q.repo.ResetQuotaIfDue(ctx, accountID, now, NextResetAt(now))
	if err != nil {
		return false, err
	}
	if reset {
		q.logger.Infow("msg", "monthly quota reset", "account_id", accountID)
	}
	return reset, nil
}

// Increment atomically adds one generation to the counter.
func (q *QuotaManager) Increment(ctx context.Context, accountID string) error {
	return q.repo.IncrementPostsUsed(ctx, accountID)
}

// Summary returns the plan view of an account after applying any due reset.
func (q *QuotaManager) Summary(ctx context.Context, accountID string) (*PlanSummary, error) {
	if _, err := q.ResetIfDue(ctx, accountID); err != nil {
		q.logger.Warnw("msg", "quota reset failed", "account_id", accountID, "error", err)
	}

	p, err := q.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	plan := NormalizePlan(p.Plan)
	return &PlanSummary{
		Plan:       plan,
		Status:     p.PlanStatus,
		Used:       p.PostsUsedThisMonth,
		Limit:      MonthlyLimit(plan),
		ResetAt:    p.PostsResetAt,
		ExpiresAt:  p.PlanExpiresAt,
		Features:   FeaturesFor(plan),
		Onboarding: p.OnboardingCompleted,
	}, nil
}
