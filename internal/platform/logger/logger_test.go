package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/platform/logger"
)

func TestNew_ReturnsNonNilLoggerForEveryLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unrecognized"} {
		log := logger.New(level)
		require.NotNil(t, log)
	}
}

func TestNew_DefaultsToInfoOnUnrecognizedLevel(t *testing.T) {
	log := logger.New("bogus")
	require.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	require.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestNew_DebugLevelEnablesDebugLogging(t *testing.T) {
	log := logger.New("debug")
	require.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
