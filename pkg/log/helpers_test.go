package log

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogHelper_TypedMethods(t *testing.T) {
	tests := []struct {
		name      string
		call      func(h *LogHelper)
		wantType  string
		wantLevel string
	}{
		{"auth", func(h *LogHelper) { h.Auth("session issued") }, "auth", "info"},
		{"oauth", func(h *LogHelper) { h.OAuth("state validated") }, "oauth", "info"},
		{"generation", func(h *LogHelper) { h.Generation("generated") }, "generation", "info"},
		{"quota", func(h *LogHelper) { h.Quota("counter reset") }, "quota", "info"},
		{"billing", func(h *LogHelper) { h.Billing("plan updated") }, "billing", "info"},
		{"scheduler", func(h *LogHelper) { h.Scheduler("batch done") }, "scheduler", "info"},
		{"rate limit", func(h *LogHelper) { h.RateLimit("too many") }, "rate_limit", "warn"},
		{"database", func(h *LogHelper) { h.Database("query") }, "database", "debug"},
		{"redis", func(h *LogHelper) { h.Redis("hit") }, "redis", "debug"},
		{"startup", func(h *LogHelper) { h.Startup("listening") }, "startup", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedAdapter(zapcore.DebugLevel)
			tt.call(NewLogHelper(logger))

			lines := decodeLines(t, buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.wantType, lines[0]["type"])
			assert.Equal(t, tt.wantLevel, lines[0]["level"])
			assert.NotEmpty(t, lines[0]["msg"])
		})
	}
}

func TestLogHelper_Request(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "req0000001")
	SetAccountID(ctx, "acc-42")

	tests := []struct {
		status    int
		wantLevel string
	}{
		{200, "info"},
		{429, "warn"},
		{502, "error"},
	}

	for _, tt := range tests {
		logger, buf := newBufferedAdapter(zapcore.DebugLevel)
		NewLogHelper(logger).Request(ctx, "POST", "/api/generate", tt.status, 1234)

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		line := lines[0]
		assert.Equal(t, tt.wantLevel, line["level"])
		assert.Equal(t, "request", line["type"])
		assert.Equal(t, "req0000001", line["request_id"])
		assert.Equal(t, "acc-42", line["account_id"])
		assert.Equal(t, float64(tt.status), line["status"])
		assert.True(t, strings.HasPrefix(line["msg"].(string), "POST /api/generate"))
	}
}
