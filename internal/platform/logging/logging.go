package logging

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logr.Logger backed by zap at the given level (debug, info, warn, error).
// The returned *zap.Logger must be synced by the caller before exit.
func New(level string) (logr.Logger, *zap.Logger) {
	zapLevel := ParseLevel(level)

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	devConfig := zap.NewDevelopmentConfig()
	devConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLogger := build(zapConfig, devConfig)
	return zapr.NewLogger(zapLogger), zapLogger
}

// build returns the first logger that builds from configs, or a no-op logger when none do.
func build(configs ...zap.Config) *zap.Logger {
	for _, cfg := range configs {
		if l, err := cfg.Build(); err == nil {
			return l
		}
	}
	return zap.NewNop()
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
