package service

import (
	"context"
	"net/http"
	"time"

	"Authormity/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// OnboardingRequest is the onboarding wizard body.
type OnboardingRequest struct {
	Niche          string   `json:"niche"`
	LinkedInTime   string   `json:"linkedin_time"`
	TargetAudience string   `json:"target_audience"`
	Goals          []string `json:"goals"`
}

// OnboardingReply echoes the stored answers.
type OnboardingReply struct {
	Success bool               `json:"success"`
	Data    *OnboardingRequest `json:"data"`
}

// PlanReply describes the session account's plan. Limit is null when unlimited.
type PlanReply struct {
	Plan                string     `json:"plan"`
	PlanStatus          string     `json:"planStatus"`
	Used                int        `json:"used"`
	Limit               *int       `json:"limit"`
	ResetAt             time.Time  `json:"resetAt"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
	Features            []string   `json:"features"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
}

// AccountService serves account-level endpoints.
type AccountService struct {
	onboarding *biz.OnboardingUsecase
	quota      *biz.QuotaManager
	logger     *log.Helper
}

// NewAccountService creates the account service.
func NewAccountService(onboarding *biz.OnboardingUsecase, quota *biz.QuotaManager, logger log.Logger) *AccountService {
	return &AccountService{onboarding: onboarding, quota: quota, logger: log.NewHelper(logger)}
}

// RegisterAccountHTTPServer mounts the account routes.
func RegisterAccountHTTPServer(s *khttp.Server, srv *AccountService) {
	r := s.Route("/")
	r.POST("/api/onboarding", srv.onboardingHandler)
	r.GET("/api/plan", srv.planHandler)
}

func (s *AccountService) onboardingHandler(ctx khttp.Context) error {
	var in OnboardingRequest
	if err := ctx.Bind(&in); err != nil {
		return biz.NewValidationError("Invalid JSON body")
	}
	h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
		return s.CompleteOnboarding(c, req.(*OnboardingRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}

// CompleteOnboarding stores the onboarding answers of the session account.
func (s *AccountService) CompleteOnboarding(ctx context.Context, in *OnboardingRequest) (*OnboardingReply, error) {
	accountID, ok := biz.AccountFromContext(ctx)
	if !ok {
		return nil, biz.ErrUnauthenticated
	}

	err := s.onboarding.Complete(ctx, accountID, &biz.OnboardingInput{
		Niche:          in.Niche,
		LinkedInTime:   in.LinkedInTime,
		TargetAudience: in.TargetAudience,
		Goals:          in.Goals,
	})
	if err != nil {
		return nil, err
	}
	return &OnboardingReply{Success: true, Data: in}, nil
}

func (s *AccountService) planHandler(ctx khttp.Context) error {
	h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		return s.GetPlan(c)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}

// GetPlan returns the plan, usage and unlocked features of the session account.
func (s *AccountService) GetPlan(ctx context.Context) (*PlanReply, error) {
	accountID, ok := biz.AccountFromContext(ctx)
	if !ok {
		return nil, biz.ErrUnauthenticated
	}

	summary, err := s.quota.Summary(ctx, accountID)
	if err != nil {
		return nil, err
	}

	reply := &PlanReply{
		Plan:                string(summary.Plan),
		PlanStatus:          string(summary.Status),
		Used:                summary.Used,
		ResetAt:             summary.ResetAt,
		ExpiresAt:           summary.ExpiresAt,
		Features:            make([]string, 0, len(summary.Features)),
		OnboardingCompleted: summary.Onboarding,
	}
	if summary.Limit != biz.Unlimited {
		limit := summary.Limit
		reply.Limit = &limit
	}
	for _, f := range summary.Features {
		reply.Features = append(reply.Features, string(f))
	}
	return reply, nil
}
