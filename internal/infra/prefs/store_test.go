package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFileUsesDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	v, restored := s.Load()
	assert.False(t, restored)
	assert.Equal(t, Values{Volume: 70, Theme: "dark"}, v)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s := NewStore(path)

	require.NoError(t, s.SaveVolume(35))
	require.NoError(t, s.SaveTheme("light"))

	v, restored := NewStore(path).Load()
	assert.True(t, restored)
	assert.Equal(t, Values{Volume: 35, Theme: "light"}, v)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "playerVolume")
	assert.Contains(t, string(raw), "colorScheme")
}

func TestStore_LoadSanitizes(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Values
	}{
		{
			name:     "volume above range",
			content:  "playerVolume: \"250\"\ncolorScheme: light\n",
			expected: Values{Volume: 100, Theme: "light"},
		},
		{
			name:     "volume not a number",
			content:  "playerVolume: loud\n",
			expected: Values{Volume: 70, Theme: "dark"},
		},
		{
			name:     "unknown theme",
			content:  "colorScheme: sepia\n",
			expected: Values{Volume: 70, Theme: "dark"},
		},
		{
			name:     "corrupt file",
			content:  ":::\n\t- [",
			expected: Values{Volume: 70, Theme: "dark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			v, _ := NewStore(path).Load()
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestStore_SaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "prefs.yaml"))
	assert.Error(t, s.SaveVolume(50))

	v, restored := s.Load()
	assert.False(t, restored)
	assert.Equal(t, DefaultVolume, v.Volume)
}
