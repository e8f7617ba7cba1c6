package log

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// LogHelper 扩展 Kratos log.Helper，为每类日志附加 "type" 字段
// EmojiConsoleEncoder 根据该字段选择表情符号
type LogHelper struct {
	*log.Helper
}

// NewLogHelper creates a LogHelper.
func NewLogHelper(logger log.Logger) *LogHelper {
	return &LogHelper{Helper: log.NewHelper(logger)}
}

func (h *LogHelper) typed(level log.Level, logType, msg string, kvs []interface{}) {
	all := make([]interface{}, 0, len(kvs)+4)
	all = append(all, log.DefaultMessageKey, msg)
	all = append(all, kvs...)
	all = append(all, "type", logType)
	h.Log(level, all...)
}

// Auth 登录、会话相关
func (h *LogHelper) Auth(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "auth", msg, kvs)
}

// OAuth LinkedIn 授权流程
func (h *LogHelper) OAuth(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "oauth", msg, kvs)
}

// Generation AI 生成
func (h *LogHelper) Generation(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "generation", msg, kvs)
}

// Quota 配额检查与扣减
func (h *LogHelper) Quota(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "quota", msg, kvs)
}

// Billing 支付回调
func (h *LogHelper) Billing(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "billing", msg, kvs)
}

// Scheduler 定时发布任务
func (h *LogHelper) Scheduler(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "scheduler", msg, kvs)
}

// RateLimit is logged at warn level.
func (h *LogHelper) RateLimit(msg string, kvs ...interface{}) {
	h.typed(log.LevelWarn, "rate_limit", msg, kvs)
}

// Database is logged at debug level.
func (h *LogHelper) Database(msg string, kvs ...interface{}) {
	h.typed(log.LevelDebug, "database", msg, kvs)
}

// Redis is logged at debug level.
func (h *LogHelper) Redis(msg string, kvs ...interface{}) {
	h.typed(log.LevelDebug, "redis", msg, kvs)
}

// Startup 启动信息
func (h *LogHelper) Startup(msg string, kvs ...interface{}) {
	h.typed(log.LevelInfo, "startup", msg, kvs)
}

// Request logs a completed HTTP request with the request id from ctx.
// 5xx responses are logged at error level, 4xx at warn.
func (h *LogHelper) Request(ctx context.Context, method, path string, status int, durationMs int64, kvs ...interface{}) {
	rc := GetRequestContext(ctx)
	msg := fmt.Sprintf("%s %s - %d (%dms)", method, path, status, durationMs)

	all := append([]interface{}{
		"request_id", rc.RequestID,
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", durationMs,
	}, kvs...)
	if rc.AccountID != "" {
		all = append(all, "account_id", rc.AccountID)
	}

	level := log.LevelInfo
	switch {
	case status >= 500:
		level = log.LevelError
	case status >= 400:
		level = log.LevelWarn
	}
	h.typed(level, "request", msg, all)
}
