package log

import (
	"log/slog"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
)

// NewSlog routes log/slog records into the zap core.
func NewSlog(cfg Config, zapLogger *zap.Logger) *slog.Logger {
	handler := slogzap.Option{Level: ParseSlogLevel(cfg.Level), Logger: zapLogger}.NewZapHandler()
	return slog.New(handler)
}

func ParseSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
