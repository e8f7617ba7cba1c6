package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Authormity/internal/data"
	"Authormity/pkg/openrouter"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	aiFailureMessage  = "AI generation failed. Please try again."
	sideEffectTimeout = 5 * time.Second
)

// GenerateRequest is one generation call.
type GenerateRequest struct {
	AccountID string
	Type      PromptType
	Input     PromptInput
	UseVoice  bool
	ClientID  string
}

// GenerateResult is the generated text plus usage accounting.
type GenerateResult struct {
	Content    string
	Type       PromptType
	Model      string
	TokensUsed *int
}

// GenerationUsecase is the single entry point for AI generation.
type GenerationUsecase struct {
	quota   *QuotaManager
	prompts *PromptAssembler
	llm     LLMGateway
	voices  VoiceProfileRepo
	clients ClientRepo
	usage   UsageLogRepo
	logger  *log.Helper
}

// NewGenerationUsecase creates the generation orchestrator.
func NewGenerationUsecase(
	quota *QuotaManager,
	prompts *PromptAssembler,
	llm LLMGateway,
	voices VoiceProfileRepo,
	clients ClientRepo,
	usage UsageLogRepo,
	logger log.Logger,
) *GenerationUsecase {
	return &GenerationUsecase{
		quota:   quota,
		prompts: prompts,
		llm:     llm,
		voices:  voices,
		clients: clients,
		usage:   usage,
		logger:  log.NewHelper(logger),
	}
}

// Generate runs: reset if due, quota check, voice load, prompt build, LLM
// call, then usage log and quota increment. Quota is only consumed after a
// successful LLM call.
func (uc *GenerationUsecase) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if req.AccountID == "" {
		return nil, NewValidationError("userId is required")
	}
	cfg, ok := ConfigFor(req.Type)
	if !ok {
		return nil, NewValidationError("Invalid promptKey: %s", string(req.Type))
	}

	if _, err := uc.quota.ResetIfDue(ctx, req.AccountID); err != nil {
		return nil, fmt.Errorf("quota reset: %w", err)
	}

	if cfg.ConsumesQuota {
		status, err := uc.quota.CheckCanGenerate(ctx, req.AccountID)
		if err != nil {
			return nil, fmt.Errorf("quota check: %w", err)
		}
		if !status.Allowed {
			return nil, &PlanLimitError{Reason: status.Reason, PostsUsed: status.Used, Limit: status.Limit}
		}
	}

	var voiceContext string
	if req.UseVoice {
		voiceContext = BuildVoiceContext(uc.loadVoice(ctx, req.AccountID, req.ClientID))
	}

	built, err := uc.prompts.Build(req.Type, req.Input, voiceContext)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completion, err := uc.llm.Complete(ctx, openrouter.Request{
		Prompt:       built.Prompt,
		SystemPrompt: built.SystemPrompt,
		Temperature:  built.Temperature,
		MaxTokens:    built.MaxTokens,
	})
	if err != nil {
		kvs := []interface{}{"msg", "llm call failed", "account_id", req.AccountID, "type", string(req.Type), "error", err}
		var apiErr *openrouter.APIError
		if errors.As(err, &apiErr) {
			kvs = append(kvs, "upstream_status", apiErr.Status, "attempts", apiErr.Attempts)
		}
		uc.logger.Errorw(kvs...)
		return nil, &AIServiceError{Message: aiFailureMessage, Err: err}
	}

	result := &GenerateResult{Content: completion.Content, Type: req.Type, Model: completion.Model}
	if result.Model == "" {
		result.Model = uc.llm.Model()
	}
	if completion.TotalTokens > 0 {
		tokens := completion.TotalTokens
		result.TokensUsed = &tokens
	}

	uc.logger.Infow("msg", "generation completed",
		"account_id", req.AccountID,
		"type", string(req.Type),
		"model", result.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"use_voice", voiceContext != "")

	uc.bestEffort(ctx, "append usage log", req.AccountID, func(ctx context.Context) error {
		return uc.usage.Append(ctx, &data.UsageLog{
			UserID:     req.AccountID,
			Action:     string(req.Type),
			ModelUsed:  result.Model,
			TokensUsed: result.TokensUsed,
		})
	})
	if cfg.ConsumesQuota {
		uc.bestEffort(ctx, "increment quota", req.AccountID, func(ctx context.Context) error {
			return uc.quota.Increment(ctx, req.AccountID)
		})
	}

	return result, nil
}

// loadVoice returns nil when no voice applies. With a client id, the client
// must belong to the account; otherwise no voice is used.
func (uc *GenerationUsecase) loadVoice(ctx context.Context, accountID, clientID string) *data.VoiceProfile {
	if clientID != "" {
		client, err := uc.clients.GetForUser(ctx, clientID, accountID)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				uc.logger.Warnw("msg", "client not found for account, generating without voice",
					"account_id", accountID, "client_id", clientID)
			} else {
				uc.logger.Warnw("msg", "failed to load client", "account_id", accountID, "client_id", clientID, "error", err)
			}
			return nil
		}
		if client.VoiceProfileID == nil || *client.VoiceProfileID == "" {
			return nil
		}
		vp, err := uc.voices.GetByID(ctx, *client.VoiceProfileID)
		if err != nil {
			if !errors.Is(err, data.ErrNotFound) {
				uc.logger.Warnw("msg", "failed to load client voice", "client_id", clientID, "error", err)
			}
			return nil
		}
		return vp
	}

	vp, err := uc.voices.GetOwn(ctx, accountID)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			uc.logger.Warnw("msg", "failed to load voice profile", "account_id", accountID, "error", err)
		}
		return nil
	}
	return vp
}

// bestEffort runs fn and discards its error. It is detached from request
// cancellation so a closed connection does not skip the write.
func (uc *GenerationUsecase) bestEffort(ctx context.Context, op, accountID string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		uc.logger.Warnw("msg", "best-effort side effect failed", "op", op, "account_id", accountID, "error", err)
	}
}
