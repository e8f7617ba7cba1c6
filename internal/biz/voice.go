package biz

import (
	"context"
	"fmt"
	"strings"

	"Authormity/internal/data"
	"Authormity/pkg/openrouter"

	"github.com/go-kratos/kratos/v2/log"
)

// MaxSamplePosts bounds a voice analysis request.
const MaxSamplePosts = 10

const voiceParseFailureMessage = "Voice analysis failed. Please try again."

// voiceAnalysis is the JSON shape the analyzeVoice prompt asks for.
type voiceAnalysis struct {
	Tone              string   `json:"tone"`
	SentenceLength    string   `json:"sentence_length"`
	EmojiUsage        string   `json:"emoji_usage"`
	HookStyle         string   `json:"hook_style"`
	Vocabulary        []string `json:"vocabulary"`
	Avoids            []string `json:"avoids"`
	PersonalityTraits []string `json:"personality_traits"`
	Signature         string   `json:"signature"`
}

// VoiceUsecase analyses sample posts into the account's voice profile.
type VoiceUsecase struct {
	generator *GenerationUsecase
	voices    VoiceProfileRepo
	logger    *log.Helper
}

// NewVoiceUsecase creates the voice analysis use case.
func NewVoiceUsecase(generator *GenerationUsecase, voices VoiceProfileRepo, logger log.Logger) *VoiceUsecase {
	return &VoiceUsecase{
		generator: generator,
		voices:    voices,
		logger:    log.NewHelper(logger),
	}
}

// Analyze runs the non-consuming analyzeVoice generation and stores the
// result as the account's own voice profile.
func (uc *VoiceUsecase) Analyze(ctx context.Context, accountID string, samplePosts []string) (*data.VoiceProfile, error) {
	posts := make([]string, 0, len(samplePosts))
	for _, p := range samplePosts {
		if p = strings.TrimSpace(p); p != "" {
			posts = append(posts, p)
		}
	}
	if len(posts) == 0 {
		return nil, NewValidationError("At least one sample post is required")
	}
	if len(posts) > MaxSamplePosts {
		return nil, NewValidationError("At most %d sample posts are allowed", MaxSamplePosts)
	}

	result, err := uc.generator.Generate(ctx, &GenerateRequest{
		AccountID: accountID,
		Type:      PromptAnalyzeVoice,
		Input:     PromptInput{"samplePosts": posts},
	})
	if err != nil {
		return nil, err
	}

	var analysis voiceAnalysis
	if err := openrouter.ParseJSON(result.Content, &analysis); err != nil {
		uc.logger.Errorw("msg", "voice analysis returned unparseable output", "account_id", accountID, "error", err)
		return nil, &AIServiceError{Message: voiceParseFailureMessage, Err: err}
	}

	vp := &data.VoiceProfile{
		UserID:            accountID,
		SamplePosts:       posts,
		Tone:              analysis.Tone,
		SentenceLength:    analysis.SentenceLength,
		EmojiUsage:        analysis.EmojiUsage,
		HookStyle:         analysis.HookStyle,
		Vocabulary:        analysis.Vocabulary,
		Avoids:            analysis.Avoids,
		PersonalityTraits: analysis.PersonalityTraits,
		Signature:         analysis.Signature,
		RawAnalysis:       result.Content,
	}
	if err := uc.voices.UpsertOwn(ctx, vp); err != nil {
		return nil, fmt.Errorf("save voice profile: %w", err)
	}

	uc.logger.Infow("msg", "voice profile updated", "account_id", accountID, "tone", vp.Tone, "samples", len(posts))
	return vp, nil
}
