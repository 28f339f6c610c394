package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbh.log")
	logger, closer := NewWithFile(slog.LevelInfo, FileOptions{Path: path, MaxSizeMB: 1})

	logger.Debug("hidden")
	logger.With("scene", "pair").Warn("constraint skipped", "error", "boom")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "constraint skipped", entry["msg"])
	assert.Equal(t, "pair", entry["scene"])
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "error")
}

func TestNewWithFile_NoPath(t *testing.T) {
	logger, closer := NewWithFile(slog.LevelInfo, FileOptions{})
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
