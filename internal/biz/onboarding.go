package biz

import (
	"context"
	"strings"

	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

// OnboardingInput is the onboarding wizard submission.
type OnboardingInput struct {
	Niche          string
	LinkedInTime   string
	TargetAudience string
	Goals          []string
}

// OnboardingUsecase stores onboarding answers.
type OnboardingUsecase struct {
	profiles ProfileRepo
	usage    UsageLogRepo
	logger   *log.Helper
}

// NewOnboardingUsecase creates the onboarding use case.
func NewOnboardingUsecase(profiles ProfileRepo, usage UsageLogRepo, logger log.Logger) *OnboardingUsecase {
	return &OnboardingUsecase{profiles: profiles, usage: usage, logger: log.NewHelper(logger)}
}

// Complete validates and stores the answers, then marks onboarding done.
func (uc *OnboardingUsecase) Complete(ctx context.Context, accountID string, in *OnboardingInput) error {
	niche := strings.TrimSpace(in.Niche)
	if niche == "" {
		return NewValidationError("Work stream is required")
	}

	var audience *string
	if a := strings.TrimSpace(in.TargetAudience); a != "" {
		audience = &a
	}

	if err := uc.profiles.CompleteOnboarding(ctx, accountID, niche, audience); err != nil {
		uc.logger.Errorw("msg", "onboarding profile update failed", "account_id", accountID, "error", err)
		return err
	}

	zero := 0
	if err := uc.usage.Append(ctx, &data.UsageLog{
		UserID:     accountID,
		Action:     "onboarding_complete",
		ModelUsed:  "none",
		TokensUsed: &zero,
	}); err != nil {
		uc.logger.Warnw("msg", "failed to log onboarding completion", "account_id", accountID, "error", err)
	}

	uc.logger.Infow("msg", "onboarding completed", "account_id", accountID, "niche", niche)
	return nil
}
