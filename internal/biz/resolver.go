package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Authormity/internal/data"
	"Authormity/pkg/linkedin"
	pkgerrors "Authormity/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Resolution is the outcome of linking an external identity to an account.
type Resolution struct {
	AccountID      string
	IsNewAccount   bool
	OnboardingDone bool
}

// AccountResolver finds or creates the account for a LinkedIn identity.
type AccountResolver struct {
	repo   ProfileRepo
	cipher TokenCipher
	now    func() time.Time
	logger *log.Helper
}

// NewAccountResolver creates an account resolver.
func NewAccountResolver(repo ProfileRepo, cipher TokenCipher, logger log.Logger) *AccountResolver {
	return &AccountResolver{
		repo:   repo,
		cipher: cipher,
		now:    time.Now,
		logger: log.NewHelper(logger),
	}
}

// Resolve matches by LinkedIn id, then e-mail, then creates a new account.
// The identity fields and encrypted tokens are then merged onto the account
// keyed by its id.
func (r *AccountResolver) Resolve(ctx context.Context, profile *linkedin.Profile, tokens *linkedin.Tokens) (*Resolution, error) {
	existing, err := r.lookup(ctx, profile)
	if err != nil {
		return nil, &AccountCreationError{Err: err}
	}

	res := &Resolution{}
	if existing == nil {
		created, isNew, err := r.create(ctx, profile)
		if err != nil {
			return nil, err
		}
		existing = created
		res.IsNewAccount = isNew
	}
	res.AccountID = existing.ID
	res.OnboardingDone = existing.OnboardingCompleted

	if err := r.linkIdentity(ctx, existing, profile, tokens); err != nil {
		return nil, err
	}

	r.logger.Infow("msg", "linkedin identity resolved",
		"account_id", res.AccountID,
		"is_new_account", res.IsNewAccount,
		"onboarding_done", res.OnboardingDone)
	return res, nil
}

// lookup returns nil, nil when no account matches.
func (r *AccountResolver) lookup(ctx context.Context, profile *linkedin.Profile) (*data.Profile, error) {
	if profile.ExternalID != "" {
		p, err := r.repo.FindByLinkedInID(ctx, profile.ExternalID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
	}

	if profile.Email != "" {
		p, err := r.repo.FindByEmail(ctx, profile.Email)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

func (r *AccountResolver) create(ctx context.Context, profile *linkedin.Profile) (*data.Profile, bool, error) {
	p := &data.Profile{
		ID:           uuid.NewString(),
		FullName:     profile.Name,
		AvatarURL:    profile.Avatar,
		Plan:         data.PlanFree,
		PlanStatus:   data.PlanStatusActive,
		PostsResetAt: NextResetAt(r.now()),
	}
	if profile.Email != "" {
		p.Email = &profile.Email
	}
	if profile.ExternalID != "" {
		p.LinkedInID = &profile.ExternalID
	}

	err := r.repo.Create(ctx, p)
	if err == nil {
		return p, true, nil
	}

	// 并发首次登录：另一个请求已创建同一账户，重新读取即可
	if pkgerrors.IsDuplicateKeyError(err) {
		winner, lookupErr := r.lookup(ctx, profile)
		if lookupErr == nil && winner != nil {
			r.logger.Warnw("msg", "account created concurrently, reusing", "account_id", winner.ID)
			return winner, false, nil
		}
	}

	r.logger.Errorw("msg", "failed to create account", "error", err)
	return nil, false, &AccountCreationError{Err: err}
}

// linkIdentity merges the identity onto account. A login without a refresh
// token keeps the stored one.
func (r *AccountResolver) linkIdentity(ctx context.Context, account *data.Profile, profile *linkedin.Profile, tokens *linkedin.Tokens) error {
	accessToken, err := r.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refreshToken := account.LinkedInRefreshToken
	if tokens.RefreshToken != "" {
		refreshToken, err = r.cipher.Encrypt(tokens.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
	}

	now := r.now().UTC()
	expiresAt := now.Add(time.Duration(tokens.ExpiresIn) * time.Second)

	p := &data.Profile{
		ID:                     account.ID,
		FullName:               profile.Name,
		AvatarURL:              profile.Avatar,
		Plan:                   data.PlanFree,
		PlanStatus:             data.PlanStatusActive,
		PostsResetAt:           NextResetAt(now),
		LinkedInAccessToken:    accessToken,
		LinkedInRefreshToken:   refreshToken,
		LinkedInTokenExpiresAt: &expiresAt,
	}
	if profile.ExternalID != "" {
		p.LinkedInID = &profile.ExternalID
	}

	if err := r.repo.UpsertIdentity(ctx, p); err != nil {
		return &AccountCreationError{Err: err}
	}
	return nil
}
