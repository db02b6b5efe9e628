package log

import (
	"github.com/bronystylecrazy/skyline/build"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewZapLogger(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if build.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level, zapcore.DebugLevel))
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level, zapcore.InfoLevel))
	}

	drop := cfg.DropFields
	if drop == nil {
		drop = DefaultDropFields
	}
	return zapConfig.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return FilterFieldsCore(core, drop...)
	}))
}

func ParseLevel(level string, fallback zapcore.Level) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return fallback
	}
}

func NewEventLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log}
}
