// Package catalog provides the immutable, ordered track catalog.
package catalog

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/playdeck/internal/domain/track"
)

var (
	ErrDuplicateID     = errors.New("duplicate track id")
	ErrInvalidDuration = errors.New("track duration must be positive")
	ErrMissingSource   = errors.New("track source is required")
)

// Catalog is the ordered list of playable tracks.
// Order defines both playback order and display order.
type Catalog struct {
	tracks []track.Track
}

// New builds a catalog from the given tracks.
// The slice is copied; later changes by the caller are not observed.
func New(tracks []track.Track) (*Catalog, error) {
	seen := make(map[int]bool, len(tracks))
	for i, t := range tracks {
		if seen[t.ID] {
			return nil, errors.Wrapf(ErrDuplicateID, "track %d (id %d)", i, t.ID)
		}
		seen[t.ID] = true

		if !t.HasDuration() {
			return nil, errors.Wrapf(ErrInvalidDuration, "track %d (id %d)", i, t.ID)
		}
		if t.Source == "" {
			return nil, errors.Wrapf(ErrMissingSource, "track %d (id %d)", i, t.ID)
		}
	}

	owned := make([]track.Track, len(tracks))
	copy(owned, tracks)
	return &Catalog{tracks: owned}, nil
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// IsEmpty returns true if the catalog has no tracks.
func (c *Catalog) IsEmpty() bool {
	return len(c.tracks) == 0
}

// At returns the track at index i.
func (c *Catalog) At(i int) (track.Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return track.Track{}, false
	}
	return c.tracks[i], true
}

// Tracks returns a copy of all tracks in order.
func (c *Catalog) Tracks() []track.Track {
	result := make([]track.Track, len(c.tracks))
	copy(result, c.tracks)
	return result
}

// Sources returns every track's source locator in order.
func (c *Catalog) Sources() []string {
	sources := make([]string, len(c.tracks))
	for i, t := range c.tracks {
		sources[i] = t.Source
	}
	return sources
}

// TotalDuration returns the sum of declared durations in seconds.
func (c *Catalog) TotalDuration() float64 {
	var total float64
	for _, t := range c.tracks {
		total += t.DurationSeconds
	}
	return total
}

// Previous returns the index before from, wrapping to the last track.
// Any from ≤ 0 (including -1 for "nothing selected") wraps.
func (c *Catalog) Previous(from int) int {
	if from <= 0 || from > len(c.tracks)-1 {
		return len(c.tracks) - 1
	}
	return from - 1
}

// Next returns the index after from, wrapping to the first track.
func (c *Catalog) Next(from int) int {
	if from >= len(c.tracks)-1 || from < -1 {
		return 0
	}
	return from + 1
}
