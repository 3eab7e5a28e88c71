// Package media defines the playback provider contract the player drives.
package media

import "math"

// StartOutcome is the result of asking a provider to start playback.
// A blocked start is not an error; callers may ignore it.
type StartOutcome int

const (
	Started StartOutcome = iota // Playback started
	Blocked                     // Start refused, e.g. autoplay policy
)

// String returns the string representation of the outcome.
func (o StartOutcome) String() string {
	switch o {
	case Started:
		return "started"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Provider is a single media element: it loads a source, plays it and
// reports time. Events are delivered on the channel returned by Events.
type Provider interface {
	// Load replaces the current source. Time resets to 0 and duration becomes unknown
	// until EventMetadataLoaded.
	Load(source string)
	// Play starts or resumes playback of the loaded source.
	Play() StartOutcome
	// Pause pauses playback.
	Pause()
	// SetCurrentTime seeks to seconds.
	SetCurrentTime(seconds float64)
	// CurrentTime returns the position in seconds.
	CurrentTime() float64
	// Duration returns the loaded source's duration in seconds, or NaN if unknown.
	Duration() float64
	// SetVolume sets the output volume as a fraction in [0,1].
	SetVolume(fraction float64)
	// Events returns the provider's event channel.
	Events() <-chan Event
}

// UnknownDuration is the Duration value before metadata is loaded.
func UnknownDuration() float64 {
	return math.NaN()
}

// IsKnownDuration reports whether d is a usable provider duration.
func IsKnownDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
