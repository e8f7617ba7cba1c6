package log

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// emojiMap 日志类型 → 表情符号
var emojiMap = map[string]string{
	"auth":       "🔓",
	"oauth":      "🔐",
	"request":    "🌐",
	"generation": "✍️",
	"quota":      "🎟️",
	"billing":    "💳",
	"scheduler":  "🗓️",
	"rate_limit": "🚦",
	"database":   "💾",
	"redis":      "📦",
	"startup":    "🚀",
}

func statusEmoji(status int64) string {
	switch {
	case status >= 500:
		return "🔴"
	case status >= 400:
		return "🟠"
	case status >= 300:
		return "🟡"
	default:
		return "🟢"
	}
}

func levelEmoji(level zapcore.Level) string {
	switch {
	case level >= zapcore.ErrorLevel:
		return "❌"
	case level == zapcore.WarnLevel:
		return "⚠️"
	case level == zapcore.DebugLevel:
		return "🐛"
	default:
		return "ℹ️"
	}
}

// EmojiConsoleEncoder wraps the zap console encoder and prefixes each message
// with an emoji chosen by HTTP status, then "type" field, then level.
type EmojiConsoleEncoder struct {
	zapcore.Encoder
}

// NewEmojiConsoleEncoder creates the encoder.
func NewEmojiConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &EmojiConsoleEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

// EncodeEntry implements zapcore.Encoder.
func (enc *EmojiConsoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	var logType string
	var status int64

	for _, f := range fields {
		switch {
		case f.Key == "type" && f.Type == zapcore.StringType:
			logType = f.String
		case f.Key == "status" && (f.Type == zapcore.Int64Type || f.Type == zapcore.Int32Type):
			status = f.Integer
		}
	}

	emoji := ""
	if status > 0 {
		emoji = statusEmoji(status)
	} else if e, ok := emojiMap[logType]; ok {
		emoji = e
	} else {
		emoji = levelEmoji(entry.Level)
	}

	entry.Message = emoji + " " + entry.Message
	return enc.Encoder.EncodeEntry(entry, fields)
}

// Clone implements zapcore.Encoder.
func (enc *EmojiConsoleEncoder) Clone() zapcore.Encoder {
	return &EmojiConsoleEncoder{Encoder: enc.Encoder.Clone()}
}
