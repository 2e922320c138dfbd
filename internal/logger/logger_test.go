package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudprep/cloudprep/internal/constants"
)

func TestInitialize_SetsDefaultLogger(t *testing.T) {
	logger := Initialize(constants.CLI, slog.LevelInfo)

	require.NotNil(t, logger)
	assert.Equal(t, logger, slog.Default())
}

func TestInitialize_RespectsLevel(t *testing.T) {
	tests := []struct {
		name    string
		env     constants.Environment
		level   slog.Level
		enabled slog.Level
		want    bool
	}{
		{"info enabled at info", constants.CLI, slog.LevelInfo, slog.LevelInfo, true},
		{"debug disabled at info", constants.CLI, slog.LevelInfo, slog.LevelDebug, false},
		{"debug enabled at debug", constants.Production, slog.LevelDebug, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Initialize(tt.env, tt.level)
			assert.Equal(t, tt.want, logger.Enabled(context.Background(), tt.enabled))
		})
	}
}
