package logutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLevel(t *testing.T) {

	assert := assert.New(t)

	core, _ := observer.New(zapcore.WarnLevel)
	assert.Equal(slog.LevelWarn, SlogLevel(zap.New(core)))

	core, _ = observer.New(zapcore.DebugLevel)
	assert.Equal(slog.LevelDebug, SlogLevel(zap.New(core)))
}

func TestNewSlogFromZap(t *testing.T) {

	assert := assert.New(t)

	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewSlogFromZap(zap.New(core))
	logger.Info("watching", "file", "hwp.yaml")
	logger.Debug("dropped")

	entries := logs.All()
	if assert.Len(entries, 1) {
		assert.Contains(entries[0].Message, "watching")
		assert.Contains(entries[0].Message, "file=hwp.yaml")
	}
}

func TestComponentLogger(t *testing.T) {

	assert := assert.New(t)

	core, logs := observer.New(zapcore.InfoLevel)
	ComponentLogger("watch", zap.New(core)).Info("started")

	entries := logs.All()
	if assert.Len(entries, 1) {
		assert.Equal("watch", entries[0].ContextMap()["component"])
	}
}
