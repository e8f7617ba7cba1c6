package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"Authormity/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQuota(repo *MockProfileRepo, now time.Time) *QuotaManager {
	q := NewQuotaManager(repo, testLogger)
	q.now = func() time.Time { return now }
	return q
}

func TestCheckCanGenerate(t *testing.T) {
	tests := []struct {
		name        string
		plan        data.Plan
		used        int
		wantAllowed bool
		wantLimit   int
	}{
		{"free under limit", data.PlanFree, 9, true, 10},
		{"free at limit", data.PlanFree, 10, false, 10},
		{"free over limit", data.PlanFree, 11, false, 10},
		{"pro unlimited", data.PlanPro, 500, true, Unlimited},
		{"team unlimited", data.PlanTeam, 0, true, Unlimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProfileRepo)
			q := newTestQuota(repo, time.Now())
			ctx := context.Background()

			repo.On("FindByID", ctx, "acc-1").Return(&data.Profile{ID: "acc-1", Plan: tt.plan, PostsUsedThisMonth: tt.used}, nil)

			status, err := q.CheckCanGenerate(ctx, "acc-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, status.Allowed)
			assert.Equal(t, tt.used, status.Used)
			assert.Equal(t, tt.wantLimit, status.Limit)
			if !tt.wantAllowed {
				assert.Equal(t, "You've used all 10 generations for this month. Upgrade to Pro for unlimited.", status.Reason)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCheckCanGenerate_ProfileNotFound(t *testing.T) {
	repo := new(MockProfileRepo)
	q := newTestQuota(repo, time.Now())
	ctx := context.Background()

	repo.On("FindByID", ctx, "ghost").Return(nil, data.ErrNotFound)

	status, err := q.CheckCanGenerate(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	assert.Equal(t, "Profile not found", status.Reason)
	assert.Zero(t, status.Used)
	assert.Zero(t, status.Limit)
}

func TestCheckCanGenerate_StoreError(t *testing.T) {
	repo := new(MockProfileRepo)
	q := newTestQuota(repo, time.Now())
	ctx := context.Background()

	repo.On("FindByID", ctx, "acc-1").Return(nil, errors.New("connection refused"))

	_, err := q.CheckCanGenerate(ctx, "acc-1")
	assert.Error(t, err)
}

func TestResetIfDue_UsesNextMonthBoundary(t *testing.T) {
	repo := new(MockProfileRepo)
	now := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	q := newTestQuota(repo, now)
	ctx := context.Background()

	repo.On("ResetQuotaIfDue", ctx, "acc-1", now, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)).Return(true, nil)

	reset, err := q.ResetIfDue(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, reset)
	repo.AssertExpectations(t)
}

func TestIncrement(t *testing.T) {
	repo := new(MockProfileRepo)
	q := newTestQuota(repo, time.Now())
	ctx := context.Background()

	repo.On("IncrementPostsUsed", ctx, "acc-1").Return(nil).Once()

	require.NoError(t, q.Increment(ctx, "acc-1"))
	repo.AssertExpectations(t)
}

func TestSummary(t *testing.T) {
	repo := new(MockProfileRepo)
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	q := newTestQuota(repo, now)
	ctx := context.Background()

	resetAt := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ResetQuotaIfDue", ctx, "acc-1", mock.Anything, mock.Anything).Return(false, errors.New("timeout"))
	repo.On("FindByID", ctx, "acc-1").Return(&data.Profile{
		ID:                  "acc-1",
		Plan:                data.PlanTeam,
		PlanStatus:          data.PlanStatusActive,
		PostsUsedThisMonth:  3,
		PostsResetAt:        resetAt,
		OnboardingCompleted: true,
	}, nil)

	s, err := q.Summary(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, data.PlanTeam, s.Plan)
	assert.Equal(t, Unlimited, s.Limit)
	assert.Equal(t, 3, s.Used)
	assert.Equal(t, resetAt, s.ResetAt)
	assert.Contains(t, s.Features, FeatureTeamWorkspace)
	assert.True(t, s.Onboarding)
}
