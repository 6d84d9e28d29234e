package obslog

import (
	"bytes"
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

func TestInitFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkers.log")
	logger, err := Init(Options{Level: "debug", Format: "legacy", File: path})
	require.NoError(t, err)

	logger.Debug("piece selected", zap.Int("row", 5))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "DEBUG")
	assert.Contains(t, line, "piece selected")
	assert.Contains(t, line, " | ")
}

func TestInitJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Options{Level: "info", Format: "json", Console: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("game over", zap.String("winner", "white"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "game over", entry["msg"])
	assert.Equal(t, "white", entry["winner"])
}

func TestInitWithoutSinks(t *testing.T) {
	logger, err := Init(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}
