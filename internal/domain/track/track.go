// Package track provides the Track domain entity.
package track

import (
	"math"
	"strconv"
)

// Track represents one playable catalog entry.
// Tracks are immutable once the catalog is built.
type Track struct {
	ID              int     // Catalog ID
	Title           string  // Track title
	Artist          string  // Artist name
	DurationSeconds float64 // Declared duration, used until the media element reports its own
	Source          string  // Opaque locator handed to the playback provider
	DurationLabel   string  // Playlist row label (optional)
}

// Label returns the duration label shown in the playlist row.
// Falls back to the formatted declared duration.
func (t *Track) Label() string {
	if t.DurationLabel != "" {
		return t.DurationLabel
	}
	return FormatTime(t.DurationSeconds)
}

// HasDuration reports whether the declared duration is usable.
func (t *Track) HasDuration() bool {
	return t.DurationSeconds > 0 && !math.IsInf(t.DurationSeconds, 0) && !math.IsNaN(t.DurationSeconds)
}

// FormatTime renders seconds as m:ss. Non-finite or negative input renders as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	mins := total / 60
	secs := total % 60
	s := strconv.FormatInt(secs, 10)
	if secs < 10 {
		s = "0" + s
	}
	return strconv.FormatInt(mins, 10) + ":" + s
}
