package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ashwinyue/next-mentor/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		level   zapcore.Level
		wantErr bool
	}{
		{name: "json info", cfg: config.LogConfig{Level: "info", Format: "json"}, level: zapcore.InfoLevel},
		{name: "console debug", cfg: config.LogConfig{Level: "DEBUG", Format: "console"}, level: zapcore.DebugLevel},
		{name: "empty format", cfg: config.LogConfig{Level: "warn"}, level: zapcore.WarnLevel},
		{name: "bad level", cfg: config.LogConfig{Level: "loud", Format: "json"}, wantErr: true},
		{name: "bad format", cfg: config.LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.level-1))
			}
		})
	}
}
