package biz

import (
	"strings"
	"unicode/utf8"

	"Authormity/internal/data"
)

// MaxPromptChars caps the assembled prompt size.
const MaxPromptChars = 12000

// PromptType selects a template and its sampling parameters.
type PromptType string

// Generation types.
const (
	PromptPost              PromptType = "post"
	PromptHooks             PromptType = "hooks"
	PromptIdeas             PromptType = "ideas"
	PromptRepurpose         PromptType = "repurpose"
	PromptRateHook          PromptType = "rateHook"
	PromptAnalyzeVoice      PromptType = "analyzeVoice"
	PromptComment           PromptType = "comment"
	PromptHumanize          PromptType = "humanize"
	PromptCarousel          PromptType = "carousel"
	PromptThread            PromptType = "thread"
	PromptConnectionMessage PromptType = "connectionMessage"
	PromptWeeklyInsights    PromptType = "weeklyInsights"
)

// PromptConfig is the fixed per-type sampling configuration.
type PromptConfig struct {
	Temperature   float64
	MaxTokens     int
	ConsumesQuota bool
}

var promptConfigs = map[PromptType]PromptConfig{
	PromptPost:              {Temperature: 0.80, MaxTokens: 1000, ConsumesQuota: true},
	PromptHooks:             {Temperature: 0.90, MaxTokens: 600, ConsumesQuota: true},
	PromptIdeas:             {Temperature: 0.85, MaxTokens: 1200, ConsumesQuota: true},
	PromptRepurpose:         {Temperature: 0.80, MaxTokens: 1000, ConsumesQuota: true},
	PromptRateHook:          {Temperature: 0.30, MaxTokens: 400, ConsumesQuota: true},
	PromptAnalyzeVoice:      {Temperature: 0.20, MaxTokens: 800, ConsumesQuota: false},
	PromptComment:           {Temperature: 0.80, MaxTokens: 500, ConsumesQuota: true},
	PromptHumanize:          {Temperature: 0.90, MaxTokens: 1200, ConsumesQuota: true},
	PromptCarousel:          {Temperature: 0.75, MaxTokens: 1500, ConsumesQuota: true},
	PromptThread:            {Temperature: 0.80, MaxTokens: 2000, ConsumesQuota: true},
	PromptConnectionMessage: {Temperature: 0.70, MaxTokens: 200, ConsumesQuota: true},
	PromptWeeklyInsights:    {Temperature: 0.40, MaxTokens: 600, ConsumesQuota: true},
}

// ParsePromptType validates a type key.
func ParsePromptType(key string) (PromptType, error) {
	t := PromptType(key)
	if _, ok := promptConfigs[t]; !ok {
		return "", NewValidationError("Invalid promptKey: %s", key)
	}
	return t, nil
}

// ConfigFor returns the configuration of t.
func ConfigFor(t PromptType) (PromptConfig, bool) {
	c, ok := promptConfigs[t]
	return c, ok
}

// PromptInput holds decoded request fields. Values are whatever JSON decoding
// produced; wrong-typed values fall back to defaults.
type PromptInput map[string]interface{}

func (in PromptInput) str(key, fallback string) string {
	if s, ok := in[key].(string); ok {
		return s
	}
	return fallback
}

// first returns the first non-empty string among keys. Clients send the
// free-text input as "topic" for every type.
func (in PromptInput) first(fallback string, keys ...string) string {
	for _, k := range keys {
		if s, ok := in[k].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func (in PromptInput) num(key string, fallback int) int {
	switch v := in[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}

func (in PromptInput) strs(key string) []string {
	switch v := in[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// BuiltPrompt is a prompt ready for the LLM gateway.
type BuiltPrompt struct {
	Type         PromptType
	Prompt       string
	SystemPrompt string
	PromptConfig
}

// PromptAssembler turns a type key and input into a prompt. It is pure.
type PromptAssembler struct {
	maxChars int
}

// NewPromptAssembler creates a prompt assembler.
func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{maxChars: MaxPromptChars}
}

// Build renders the template of t. voiceContext may be empty.
func (a *PromptAssembler) Build(t PromptType, in PromptInput, voiceContext string) (*BuiltPrompt, error) {
	cfg, ok := promptConfigs[t]
	if !ok {
		return nil, NewValidationError("Invalid promptKey: %s", string(t))
	}

	prompt := render(t, in, voiceContext)
	if n := utf8.RuneCountInString(prompt); n > a.maxChars {
		return nil, NewValidationError("Prompt exceeds maximum allowed size (%d / %d chars). Reduce input size.", n, a.maxChars)
	}

	return &BuiltPrompt{
		Type:         t,
		Prompt:       prompt,
		SystemPrompt: SystemPrompt,
		PromptConfig: cfg,
	}, nil
}

func render(t PromptType, in PromptInput, voice string) string {
	switch t {
	case PromptPost:
		return postPrompt(in.str("topic", ""), in.str("tone", "conversational"), in.str("length", "medium"), voice)
	case PromptHooks:
		return hooksPrompt(in.str("topic", ""), voice)
	case PromptIdeas:
		return ideasPrompt(in.first("Professional", "topic", "niche"), voice)
	case PromptRepurpose:
		return repurposePrompt(in.str("sourceType", "content"), in.str("sourceContent", ""), voice)
	case PromptRateHook:
		return rateHookPrompt(in.str("hookText", ""))
	case PromptAnalyzeVoice:
		return analyzeVoicePrompt(in.strs("samplePosts"))
	case PromptComment:
		return commentPrompt(in.str("postText", ""), in.str("commentIntent", "add-value"), voice)
	case PromptHumanize:
		return humanizePrompt(in.first("", "topic", "aiText"), voice)
	case PromptCarousel:
		return carouselPrompt(in.str("topic", ""), in.num("slideCount", 8), voice)
	case PromptThread:
		return threadPrompt(in.str("topic", ""), in.num("threadCount", 5), voice)
	case PromptConnectionMessage:
		return connectionMessagePrompt(in.str("personRole", "Professional"), in.first("", "topic", "context"), in.first("LinkedIn Creator", "userNiche"))
	case PromptWeeklyInsights:
		return weeklyInsightsPrompt(in.first("", "topic", "analyticsData"))
	}
	return ""
}

// BuildVoiceContext renders a voice profile as a prompt preamble.
func BuildVoiceContext(vp *data.VoiceProfile) string {
	if vp == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("WRITER'S VOICE PROFILE — MATCH THIS EXACTLY:\n")
	b.WriteString("Tone: " + vp.Tone + "\n")
	b.WriteString("Sentence length: " + vp.SentenceLength + "\n")
	b.WriteString("Emoji usage: " + vp.EmojiUsage + "\n")
	b.WriteString("Hook style: " + vp.HookStyle + "\n")
	b.WriteString("Characteristic words: " + strings.Join(vp.Vocabulary, ", ") + "\n")
	b.WriteString("NEVER use: " + strings.Join(vp.Avoids, ", ") + "\n")
	b.WriteString("Voice description: " + vp.Signature)
	return strings.TrimSpace(b.String())
}
