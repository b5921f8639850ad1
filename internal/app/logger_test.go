package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("dropped")
	logger.Warn("kept", "node_id", "dndnode_0")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "exactly one JSON record expected")
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "flowcanvas", rec["app"])
	assert.Equal(t, "dndnode_0", rec["node_id"])
	assert.NotContains(t, rec, "source")
}

func TestNewLogger_TextDebugHasSource(t *testing.T) {
	var buf bytes.Buffer
	newLogger("debug", "text", &buf).Debug("hello")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "msg=hello")
}
