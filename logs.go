package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger writes human-readable lines to stderr. Debug mode lowers the
// level so every successful attempt is logged too.
func NewLogger(settings *Settings) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if settings.DebugMode {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zcfg.DisableStacktrace = !settings.DebugMode
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

func jobLogger(log *zap.Logger, job Job) *zap.Logger {
	return log.With(zap.String("site", job.Site), zap.String("job", job.Key), zap.String("product", job.String()))
}
