package player

import (
	"github.com/osa030/playdeck/internal/app/progress"
	"github.com/osa030/playdeck/internal/app/state"
	"github.com/osa030/playdeck/internal/domain/track"
)

// Theme is the color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme returns the theme for s, or ThemeDark for anything unrecognized.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// VolumeLevel buckets the volume for the speaker icon.
type VolumeLevel int

const (
	VolumeMuted VolumeLevel = iota // 0
	VolumeLow                      // 1..49
	VolumeHigh                     // 50..100
)

// String returns the string representation of the volume level.
func (v VolumeLevel) String() string {
	switch v {
	case VolumeMuted:
		return "muted"
	case VolumeLow:
		return "low"
	case VolumeHigh:
		return "high"
	default:
		return "unknown"
	}
}

func levelOf(volume int) VolumeLevel {
	switch {
	case volume <= 0:
		return VolumeMuted
	case volume < 50:
		return VolumeLow
	default:
		return VolumeHigh
	}
}

// PlaylistItem is one playlist row.
type PlaylistItem struct {
	Index  int
	Track  track.Track
	Label  string // Duration label
	Active bool   // Highlighted as the current track
}

// Snapshot is the read model for the presentation layer.
// It is recomputed on demand; nothing is diffed.
type Snapshot struct {
	CurrentTrackIndex int
	IsPlaying         bool
	IsDragging        bool
	Phase             state.Phase
	Track             *track.Track // nil when idle
	Progress          progress.Display
	Volume            int
	VolumeLevel       VolumeLevel
	Theme             Theme
	CanSkip           bool // Previous/next are enabled
	Playlist          []PlaylistItem
}

// IsHighlighted reports whether row index is the current track.
func (s Snapshot) IsHighlighted(index int) bool {
	return index >= 0 && index == s.CurrentTrackIndex
}
