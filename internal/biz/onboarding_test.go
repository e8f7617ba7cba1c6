package biz

import (
	"context"
	"errors"
	"testing"

	"Authormity/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOnboardingComplete(t *testing.T) {
	profiles := new(MockProfileRepo)
	usage := new(MockUsageLogRepo)
	uc := NewOnboardingUsecase(profiles, usage, testLogger)

	profiles.On("CompleteOnboarding", mock.Anything, "acc-1", "B2B SaaS", mock.MatchedBy(func(a *string) bool {
		return a != nil && *a == "Founders"
	})).Return(nil)
	usage.On("Append", mock.Anything, mock.MatchedBy(func(l *data.UsageLog) bool {
		return l.UserID == "acc-1" && l.Action == "onboarding_complete" && l.ModelUsed == "none" &&
			l.TokensUsed != nil && *l.TokensUsed == 0
	})).Return(nil)

	err := uc.Complete(context.Background(), "acc-1", &OnboardingInput{Niche: "  B2B SaaS ", TargetAudience: " Founders "})
	require.NoError(t, err)
	profiles.AssertExpectations(t)
	usage.AssertExpectations(t)
}

func TestOnboardingComplete_EmptyAudienceIsNull(t *testing.T) {
	profiles := new(MockProfileRepo)
	usage := new(MockUsageLogRepo)
	uc := NewOnboardingUsecase(profiles, usage, testLogger)

	profiles.On("CompleteOnboarding", mock.Anything, "acc-1", "Design", (*string)(nil)).Return(nil)
	usage.On("Append", mock.Anything, mock.Anything).Return(errors.New("usage_logs locked"))

	require.NoError(t, uc.Complete(context.Background(), "acc-1", &OnboardingInput{Niche: "Design", TargetAudience: "   "}))
}

func TestOnboardingComplete_Errors(t *testing.T) {
	profiles := new(MockProfileRepo)
	usage := new(MockUsageLogRepo)
	uc := NewOnboardingUsecase(profiles, usage, testLogger)

	err := uc.Complete(context.Background(), "acc-1", &OnboardingInput{Niche: " "})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Work stream is required", vErr.Message)

	profiles.On("CompleteOnboarding", mock.Anything, "ghost", "Design", (*string)(nil)).Return(data.ErrNotFound)
	err = uc.Complete(context.Background(), "ghost", &OnboardingInput{Niche: "Design"})
	assert.ErrorIs(t, err, data.ErrNotFound)
	usage.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
