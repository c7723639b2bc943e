package logutil

import (
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

// SlogLevel maps a zap level to the closest slog level.
func SlogLevel(logger *zap.Logger) slog.Level {
	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel, zap.PanicLevel, zap.FatalLevel:
		slogLevel = slog.LevelError
	}
	return slogLevel
}

// NewSlogFromZap writes tinted slog records through logger.
func NewSlogFromZap(logger *zap.Logger) *slog.Logger {
	stdOutLogger := zap.NewStdLog(logger)

	return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
		Level:      SlogLevel(logger),
		TimeFormat: time.DateTime,
		NoColor:    true,
	}))
}

func ComponentLogger(component string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("component", component))
}
