package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"golang.org/x/exp/slog"
	"pettrack/internal/app/client/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel slog.Level
	}{
		{
			name:          "local environment",
			env:           config.EnvLocal,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "dev environment",
			env:           config.EnvDev,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "prod environment",
			env:           config.EnvProd,
			expectedLevel: slog.LevelInfo,
		},
		{
			name:          "unknown environment",
			env:           "staging",
			expectedLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.env)
			require.NotNil(t, logger)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.expectedLevel <= slog.LevelInfo, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestSetupPrettySlog(t *testing.T) {
	logger := setupPrettySlog()
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("component", "test"))

	log.Warn("fetch failed", slog.Any("error", errors.New("boom")), slog.Int("attempt", 2))

	out := buf.String()
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, `"component": "test"`)
	assert.Contains(t, out, `"error": "boom"`)
	assert.Contains(t, out, `"attempt": 2`)
}

func TestNewWithLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		level    string
		debugOn  bool
		infoOn   bool
		warnOnly bool
	}{
		{name: "level overrides env", env: config.EnvProd, level: "debug", debugOn: true, infoOn: true},
		{name: "warn in local", env: config.EnvLocal, level: "warn", warnOnly: true},
		{name: "empty keeps env default", env: config.EnvProd, level: "", infoOn: true},
		{name: "garbage keeps env default", env: config.EnvDev, level: "loud", debugOn: true, infoOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewWithLevel(tt.env, tt.level)
			ctx := context.Background()
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, logger.Enabled(ctx, slog.LevelInfo))
			assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
			if tt.warnOnly {
				assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
			}
		})
	}
}
