package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{in: "debug", expected: zerolog.DebugLevel},
		{in: "INFO", expected: zerolog.InfoLevel},
		{in: "", expected: zerolog.InfoLevel},
		{in: "warning", expected: zerolog.WarnLevel},
		{in: "error", expected: zerolog.ErrorLevel},
		{in: "verbose", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel, false)

	l.Debug().Msg("hidden")
	l.Info().Msg("player: track selected")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"player: track selected"`)
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playdeck.log")

	closer, err := Init(Config{Output: path, Level: "info"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestInit_FileError(t *testing.T) {
	_, err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestShortCaller(t *testing.T) {
	file := filepath.Join("root", "internal", "app", "player", "player.go")
	assert.Equal(t, filepath.Join("player", "player.go")+":42", shortCaller(0, file, 42))
	assert.Equal(t, "main.go:1", shortCaller(0, "main.go", 1))
}
