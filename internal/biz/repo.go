package biz

import (
	"context"
	"time"

	"Authormity/internal/data"
	"Authormity/pkg/linkedin"
	"Authormity/pkg/openrouter"
)

// Repository and collaborator interfaces. Following Kratos v2 DDD
// architecture, interfaces are defined in biz layer and implemented in data
// or pkg.

// ProfileRepo persists accounts.
type ProfileRepo interface {
	FindByID(ctx context.Context, id string) (*data.Profile, error)
	FindByLinkedInID(ctx context.Context, linkedinID string) (*data.Profile, error)
	FindByEmail(ctx context.Context, email string) (*data.Profile, error)
	Create(ctx context.Context, p *data.Profile) error
	UpsertIdentity(ctx context.Context, p *data.Profile) error
	ResetQuotaIfDue(ctx context.Context, id string, now, next time.Time) (bool, error)
	IncrementPostsUsed(ctx context.Context, id string) error
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error
	CompleteOnboarding(ctx context.Context, id, niche string, targetAudience *string) error
	UpdatePlan(ctx context.Context, id string, u data.PlanUpdate) error
}

// VoiceProfileRepo reads and writes voice profiles.
type VoiceProfileRepo interface {
	GetOwn(ctx context.Context, userID string) (*data.VoiceProfile, error)
	GetByID(ctx context.Context, id string) (*data.VoiceProfile, error)
	UpsertOwn(ctx context.Context, vp *data.VoiceProfile) error
}

// ClientRepo reads ghostwriting clients scoped to their owner.
type ClientRepo interface {
	GetForUser(ctx context.Context, clientID, userID string) (*data.Client, error)
}

// PostRepo is used by the scheduled publisher.
type PostRepo interface {
	ListDue(ctx context.Context, from, to time.Time) ([]*data.Post, error)
	MarkPublished(ctx context.Context, id, linkedinPostID string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}

// UsageLogRepo appends usage rows.
type UsageLogRepo interface {
	Append(ctx context.Context, entry *data.UsageLog) error
}

// RateLimitRepo holds shared per-account request counters.
type RateLimitRepo interface {
	Available() bool
	IncrementRPM(ctx context.Context, accountID string) (int64, error)
}

// IdentityProvider is the LinkedIn client as seen by use cases.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*linkedin.Tokens, error)
	FetchProfile(ctx context.Context, accessToken string) (*linkedin.Profile, error)
	Refresh(ctx context.Context, refreshToken string) (*linkedin.Tokens, error)
	Publish(ctx context.Context, accessToken, externalID, content string) (string, error)
}

// LLMGateway sends a single completion with its own retry policy.
type LLMGateway interface {
	Complete(ctx context.Context, in openrouter.Request) (*openrouter.Completion, error)
	Model() string
}

// TokenCipher encrypts third-party tokens at rest.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(blob string) (string, error)
}
