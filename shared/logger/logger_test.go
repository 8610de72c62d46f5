package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zapcore.Level
	}{
		{"empty defaults to info", "", zapcore.InfoLevel},
		{"debug", "debug", zapcore.DebugLevel},
		{"upper case", "WARN", zapcore.WarnLevel},
		{"invalid falls back to info", "loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(Config{Level: tt.level, Encoding: "console"})
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" Error ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, level)

	level, err = ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestNew_JSONOutputCarriesServiceName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "info", Encoding: "unknown", OutputPath: path, ServiceName: "user-server"})
	require.NoError(t, err)

	log.Info("User registered", zap.String("userID", "42"))
	log.Debug("dropped")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "user-server", entry["service"])
	assert.Equal(t, "42", entry["userID"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "caller")
}

func TestNew_DevelopmentAddsCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	log, err := New(Config{Encoding: "json", OutputPath: path, Development: true})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Contains(t, entry["caller"], "logger_test.go")
}
