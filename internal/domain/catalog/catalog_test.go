package catalog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playdeck/internal/domain/track"
)

func fiveTracks() []track.Track {
	return []track.Track{
		{ID: 1, Title: "One", Artist: "A", DurationSeconds: 225, Source: "audio/1.mp3"},
		{ID: 2, Title: "Two", Artist: "A", DurationSeconds: 260, Source: "audio/2.mp3"},
		{ID: 3, Title: "Three", Artist: "B", DurationSeconds: 210, Source: "audio/3.mp3"},
		{ID: 4, Title: "Four", Artist: "C", DurationSeconds: 315, Source: "audio/4.mp3"},
		{ID: 5, Title: "Five", Artist: "B", DurationSeconds: 240, Source: "audio/5.mp3"},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		tracks  []track.Track
		wantErr error
	}{
		{
			name:   "valid catalog",
			tracks: fiveTracks(),
		},
		{
			name:   "empty catalog",
			tracks: []track.Track{},
		},
		{
			name: "duplicate id",
			tracks: []track.Track{
				{ID: 1, DurationSeconds: 10, Source: "a"},
				{ID: 1, DurationSeconds: 10, Source: "b"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "zero duration",
			tracks: []track.Track{
				{ID: 1, DurationSeconds: 0, Source: "a"},
			},
			wantErr: ErrInvalidDuration,
		},
		{
			name: "missing source",
			tracks: []track.Track{
				{ID: 1, DurationSeconds: 10},
			},
			wantErr: ErrMissingSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.tracks)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.tracks), c.Len())
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	tracks := fiveTracks()
	c, err := New(tracks)
	require.NoError(t, err)

	tracks[0].Title = "changed"
	got, ok := c.At(0)
	require.True(t, ok)
	assert.Equal(t, "One", got.Title)

	copied := c.Tracks()
	copied[1].Title = "changed"
	got, _ = c.At(1)
	assert.Equal(t, "Two", got.Title)
}

func TestCatalog_At(t *testing.T) {
	c, err := New(fiveTracks())
	require.NoError(t, err)

	_, ok := c.At(-1)
	assert.False(t, ok)
	_, ok = c.At(5)
	assert.False(t, ok)

	got, ok := c.At(4)
	assert.True(t, ok)
	assert.Equal(t, 5, got.ID)
}

func TestCatalog_Wraparound(t *testing.T) {
	c, err := New(fiveTracks())
	require.NoError(t, err)

	tests := []struct {
		name     string
		from     int
		previous int
		next     int
	}{
		{name: "nothing selected", from: -1, previous: 4, next: 0},
		{name: "first", from: 0, previous: 4, next: 1},
		{name: "middle", from: 2, previous: 1, next: 3},
		{name: "last", from: 4, previous: 3, next: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.previous, c.Previous(tt.from))
			assert.Equal(t, tt.next, c.Next(tt.from))
		})
	}
}

func TestCatalog_TotalDurationAndSources(t *testing.T) {
	c, err := New(fiveTracks())
	require.NoError(t, err)

	assert.Equal(t, float64(1250), c.TotalDuration())
	assert.Equal(t, []string{"audio/1.mp3", "audio/2.mp3", "audio/3.mp3", "audio/4.mp3", "audio/5.mp3"}, c.Sources())
	assert.False(t, c.IsEmpty())
}
