package logging

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
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)

	logger.Info("dropped")
	logger.Warn("kept", slog.String("file", "a.csv"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "a.csv", rec["file"])
	assert.Equal(t, "b1500a", rec["service"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New("debug", "text", &buf).Debug("parsed", slog.Int("rows", 4))
	assert.Contains(t, buf.String(), "msg=parsed")
	assert.Contains(t, buf.String(), "rows=4")
}
