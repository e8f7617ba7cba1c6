// Package openrouter is a minimal chat-completions client for OpenRouter.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL OpenRouter API 地址
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel 未配置模型时使用
	DefaultModel = "arcee-ai/trinity-large-preview:free"
	// DefaultReferer HTTP-Referer 默认值
	DefaultReferer = "https://authormity.com"
	// AppTitle X-Title 请求头
	AppTitle = "Authormity"

	// DefaultTimeout 单次请求超时
	DefaultTimeout = 60 * time.Second
	// DefaultRetryBackoff 5xx 后重试前的等待时间
	DefaultRetryBackoff = time.Second

	maxAttempts  = 2
	maxErrorBody = 2048
)

// ErrEmptyContent is returned when a success response carries no completion text.
var ErrEmptyContent = errors.New("openrouter: response has no content")

// APIError is a non-success status from the completion endpoint.
type APIError struct {
	Status   int
	Body     string
	Attempts int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter API error [%d] after %d attempt(s): %s", e.Status, e.Attempts, e.Body)
}

// Request is a single completion call.
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Model        string
}

// Completion is the parsed result of a successful call.
type Completion struct {
	Content     string
	Model       string
	TotalTokens int
}

// Config configures a Client.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Referer      string
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// Client LLM 网关，无状态
type Client struct {
	apiKey  string
	baseURL string
	model   string
	referer string
	backoff time.Duration
	http    *http.Client
}

// NewClient creates a gateway client.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		referer: cfg.Referer,
		backoff: cfg.RetryBackoff,
		http:    cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.referer == "" {
		c.referer = DefaultReferer
	}
	if c.backoff <= 0 {
		c.backoff = DefaultRetryBackoff
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// Model returns the model used when a Request leaves it empty.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a chat completion. A 5xx response is retried exactly once
// after a fixed backoff; every other failure returns immediately.
func (c *Client) Complete(ctx context.Context, in Request) (*Completion, error) {
	model := in.Model
	if model == "" {
		model = c.model
	}

	messages := make([]chatMessage, 0, 2)
	if in.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: in.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: in.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var status int
	var body []byte
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		status, body, err = c.send(ctx, payload)
		if err != nil {
			return nil, err
		}
		if status < 500 {
			break
		}
	}

	if status < 200 || status >= 300 {
		attempts := 1
		if status >= 500 {
			attempts = maxAttempts
		}
		return nil, &APIError{Status: status, Body: truncate(body), Attempts: attempts}
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openrouter: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyContent
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	out := &Completion{Content: content, Model: resp.Model}
	if out.Model == "" {
		out.Model = model
	}
	if resp.Usage != nil {
		out.TotalTokens = resp.Usage.TotalTokens
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", AppTitle)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("openrouter: read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// ParseJSON decodes model output that may be wrapped in a markdown code fence.
func ParseJSON(content string, v any) error {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("openrouter: model output is not valid JSON: %w", err)
	}
	return nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}
