package log

import (
	"context"
	"math/rand/v2"
	"time"
)

type contextKey struct{}

// RequestContext carries per-request tracing data through context.Context.
type RequestContext struct {
	RequestID string
	AccountID string
	StartTime time.Time
}

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateRequestID 生成 10 位 base36 请求 ID，例如 mgrn0zfqda
func GenerateRequestID() string {
	b := make([]byte, 10)
	for i := range b {
		b[i] = base36Chars[rand.IntN(len(base36Chars))]
	}
	return string(b)
}

// WithRequestContext stores a fresh RequestContext in ctx.
func WithRequestContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, &RequestContext{
		RequestID: requestID,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the RequestContext in ctx, or a placeholder.
func GetRequestContext(ctx context.Context) *RequestContext {
	if ctx != nil {
		if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok {
			return rc
		}
	}
	return &RequestContext{RequestID: "unknown"}
}

// SetAccountID records the authenticated account on the request context.
// It is a no-op when ctx has no RequestContext.
func SetAccountID(ctx context.Context, accountID string) {
	if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok {
		rc.AccountID = accountID
	}
}

// GetRequestID returns the request id from ctx.
func GetRequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

// GetAccountID returns the account id from ctx.
func GetAccountID(ctx context.Context) string {
	return GetRequestContext(ctx).AccountID
}

// GetElapsedTime 请求已执行时间（毫秒）
func GetElapsedTime(ctx context.Context) int64 {
	rc := GetRequestContext(ctx)
	if rc.StartTime.IsZero() {
		return 0
	}
	return time.Since(rc.StartTime).Milliseconds()
}
