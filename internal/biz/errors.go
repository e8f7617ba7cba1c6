package biz

import (
	"errors"
	"fmt"
)

// Error reasons shared with the HTTP layer.
const (
	ReasonPlanLimit    = "PLAN_LIMIT_REACHED"
	ReasonValidation   = "VALIDATION_ERROR"
	ReasonAIService    = "AI_SERVICE_ERROR"
	ReasonRateLimited  = "RATE_LIMITED"
	ReasonUnauthorized = "UNAUTHORIZED"
	ReasonInternal     = "INTERNAL"
)

// ErrUnauthenticated is returned when a request carries no valid session.
var ErrUnauthenticated = errors.New("unauthenticated")

// AccountCreationError 账户解析阶段的存储失败，对回调流程是致命错误
type AccountCreationError struct {
	Err error
}

func (e *AccountCreationError) Error() string {
	return fmt.Sprintf("account creation failed: %v", e.Err)
}

func (e *AccountCreationError) Unwrap() error {
	return e.Err
}

// PlanLimitError is a user-facing quota denial.
type PlanLimitError struct {
	Reason    string
	PostsUsed int
	Limit     int
}

func (e *PlanLimitError) Error() string {
	return e.Reason
}

// ValidationError carries a message that may be shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AIServiceError hides LLM failure detail behind a fixed message.
// Err is kept for server-side logs only.
type AIServiceError struct {
	Message string
	Err     error
}

func (e *AIServiceError) Error() string {
	return e.Message
}

func (e *AIServiceError) Unwrap() error {
	return e.Err
}

// RateLimitExceededError is returned by the advisory rate limiter.
type RateLimitExceededError struct {
	Current    int64
	Limit      int
	RetryAfter int64 // seconds
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: current=%d limit=%d retry_after=%ds", e.Current, e.Limit, e.RetryAfter)
}
