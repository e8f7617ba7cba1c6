// Package biz contains business logic layer implementations.
// This layer holds the core business rules and domain models.
package biz

import (
	"Authormity/internal/data"
	"Authormity/pkg/crypto"
	"Authormity/pkg/linkedin"
	"Authormity/pkg/openrouter"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewQuotaManager,
	NewAccountResolver,
	NewSessionIssuer,
	NewOAuthUsecase,
	NewPromptAssembler,
	NewGenerationUsecase,
	NewVoiceUsecase,
	NewOnboardingUsecase,
	NewBillingUsecase,
	NewPublishTask,
	NewRateLimiterUseCase,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(ProfileRepo), new(*data.ProfileRepo)),
	wire.Bind(new(VoiceProfileRepo), new(*data.VoiceProfileRepo)),
	wire.Bind(new(ClientRepo), new(*data.ClientRepo)),
	wire.Bind(new(PostRepo), new(*data.PostRepo)),
	wire.Bind(new(UsageLogRepo), new(*data.UsageLogRepo)),
	wire.Bind(new(RateLimitRepo), new(*data.RateLimitRepo)),
	wire.Bind(new(IdentityProvider), new(*linkedin.Client)),
	wire.Bind(new(LLMGateway), new(*openrouter.Client)),
	wire.Bind(new(TokenCipher), new(*crypto.TokenCipher)),
)
