package service

import (
	"context"
	"net/http"

	"Authormity/internal/biz"
	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// GenerateReply is the body of a successful generation.
type GenerateReply struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// AnalyzeVoiceRequest is the voice analysis body.
type AnalyzeVoiceRequest struct {
	SamplePosts []string `json:"samplePosts"`
}

// AnalyzeVoiceReply wraps the stored voice profile.
type AnalyzeVoiceReply struct {
	VoiceProfile *data.VoiceProfile `json:"voiceProfile"`
}

// GenerationService serves AI generation endpoints.
type GenerationService struct {
	uc      *biz.GenerationUsecase
	voice   *biz.VoiceUsecase
	limiter *biz.RateLimiterUseCase
	logger  *log.Helper
}

// NewGenerationService creates the generation service.
func NewGenerationService(uc *biz.GenerationUsecase, voice *biz.VoiceUsecase, limiter *biz.RateLimiterUseCase, logger log.Logger) *GenerationService {
	return &GenerationService{uc: uc, voice: voice, limiter: limiter, logger: log.NewHelper(logger)}
}

// RegisterGenerationHTTPServer mounts the generation routes.
func RegisterGenerationHTTPServer(s *khttp.Server, srv *GenerationService) {
	r := s.Route("/")
	r.POST("/api/generate", srv.generateHandler)
	r.POST("/api/voice/analyze", srv.analyzeVoiceHandler)
}

func (s *GenerationService) generateHandler(ctx khttp.Context) error {
	in := biz.PromptInput{}
	if err := ctx.Bind(&in); err != nil {
		return biz.NewValidationError("Invalid JSON body")
	}
	h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
		return s.Generate(c, req.(biz.PromptInput))
	})
	out, err := h(ctx, in)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}

// Generate runs one generation for the session account. The body carries
// type, useVoice and clientId next to the type-specific fields.
func (s *GenerationService) Generate(ctx context.Context, in biz.PromptInput) (*GenerateReply, error) {
	accountID, ok := biz.AccountFromContext(ctx)
	if !ok {
		return nil, biz.ErrUnauthenticated
	}

	typeKey, _ := in["type"].(string)
	if typeKey == "" {
		return nil, biz.NewValidationError("type is required")
	}
	promptType, err := biz.ParsePromptType(typeKey)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.CheckRPM(ctx, accountID); err != nil {
		return nil, err
	}

	useVoice, _ := in["useVoice"].(bool)
	clientID, _ := in["clientId"].(string)

	result, err := s.uc.Generate(ctx, &biz.GenerateRequest{
		AccountID: accountID,
		Type:      promptType,
		Input:     in,
		UseVoice:  useVoice,
		ClientID:  clientID,
	})
	if err != nil {
		return nil, err
	}
	return &GenerateReply{Content: result.Content, Type: string(result.Type)}, nil
}

func (s *GenerationService) analyzeVoiceHandler(ctx khttp.Context) error {
	var in AnalyzeVoiceRequest
	if err := ctx.Bind(&in); err != nil {
		return biz.NewValidationError("Invalid JSON body")
	}
	h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
		return s.AnalyzeVoice(c, req.(*AnalyzeVoiceRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}

// AnalyzeVoice extracts and stores the session account's voice profile.
func (s *GenerationService) AnalyzeVoice(ctx context.Context, in *AnalyzeVoiceRequest) (*AnalyzeVoiceReply, error) {
	accountID, ok := biz.AccountFromContext(ctx)
	if !ok {
		return nil, biz.ErrUnauthenticated
	}
	if err := s.limiter.CheckRPM(ctx, accountID); err != nil {
		return nil, err
	}

	vp, err := s.voice.Analyze(ctx, accountID, in.SamplePosts)
	if err != nil {
		return nil, err
	}
	return &AnalyzeVoiceReply{VoiceProfile: vp}, nil
}
