package logger_test

import (
	"testing"

	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := logger.New(&config.LogConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(&config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
