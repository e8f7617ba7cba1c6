// Package log wires zap into Kratos and masks sensitive values on the way out.
package log

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
)

// KratosAdapter adapts a zap logger to the Kratos log.Logger interface.
type KratosAdapter struct {
	zapLogger *zap.Logger
}

// NewKratosAdapter creates a Kratos logger backed by zap.
func NewKratosAdapter(zapLogger *zap.Logger) log.Logger {
	return &KratosAdapter{zapLogger: zapLogger}
}

// Log implements log.Logger. The "msg" key (set by Helper.Infow and friends)
// becomes the zap message; every other string value passes through SanitizeField.
func (a *KratosAdapter) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	var msg string
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		value := keyvals[i+1]

		if key == log.DefaultMessageKey {
			if s, ok := value.(string); ok && msg == "" {
				msg = s
				continue
			}
		}

		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, SanitizeField(key, v)))
		case error:
			fields = append(fields, zap.String(key, v.Error()))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	switch level {
	case log.LevelDebug:
		a.zapLogger.Debug(msg, fields...)
	case log.LevelWarn:
		a.zapLogger.Warn(msg, fields...)
	case log.LevelError:
		a.zapLogger.Error(msg, fields...)
	case log.LevelFatal:
		a.zapLogger.Fatal(msg, fields...)
	default:
		a.zapLogger.Info(msg, fields...)
	}

	return nil
}

// Sync flushes buffered log entries.
func (a *KratosAdapter) Sync() error {
	return a.zapLogger.Sync()
}
