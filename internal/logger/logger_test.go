package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chain-support/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	l, err := NewLogger(config.LoggerConfig{Level: "debug", Encoding: "console"}, config.AppConfig{Name: "chain-support"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = NewLogger(config.LoggerConfig{Level: "warn", Encoding: "json"}, config.AppConfig{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := NewLogger(config.LoggerConfig{Level: "loud"}, config.AppConfig{})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}
