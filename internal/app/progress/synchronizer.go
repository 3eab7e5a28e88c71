// Package progress reconciles the displayed playback progress between the
// media clock and an in-progress seek gesture.
package progress

import (
	"math"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playdeck/internal/app/media"
	"github.com/osa030/playdeck/internal/app/state"
	"github.com/osa030/playdeck/internal/domain/track"
)

// Clock is the part of a media provider the synchronizer reads and seeks.
type Clock interface {
	CurrentTime() float64
	Duration() float64
	SetCurrentTime(seconds float64)
}

// Bar is the progress bar's horizontal bounding box in pointer coordinates.
type Bar struct {
	Left  float64
	Width float64
}

// Display is what the presentation layer renders for the progress bar.
type Display struct {
	Percent     float64 // 0..100
	CurrentTime string  // m:ss
	TotalTime   string  // m:ss
}

// Synchronizer computes the progress display.
// While the player state reports a drag, the drag fraction replaces the clock.
type Synchronizer struct {
	state    *state.Player
	clock    Clock
	bar      Bar
	declared float64 // Selected track's catalog duration
	fraction float64 // Last displayed drag fraction
}

// NewSynchronizer creates a synchronizer reading st and clock.
func NewSynchronizer(st *state.Player, clock Clock) *Synchronizer {
	return &Synchronizer{
		state: st,
		clock: clock,
	}
}

// SetBar updates the progress bar geometry.
func (s *Synchronizer) SetBar(bar Bar) {
	s.bar = bar
}

// Bar returns the progress bar geometry.
func (s *Synchronizer) Bar() Bar {
	return s.bar
}

// SetDeclaredDuration sets the selected track's catalog duration,
// used until the clock reports its own.
func (s *Synchronizer) SetDeclaredDuration(seconds float64) {
	s.declared = seconds
}

// EffectiveDuration returns the clock duration when known, else the declared one, else 0.
func (s *Synchronizer) EffectiveDuration() float64 {
	if !s.state.HasTrack() {
		return 0
	}
	if d := s.clock.Duration(); media.IsKnownDuration(d) {
		return d
	}
	if media.IsKnownDuration(s.declared) {
		return s.declared
	}
	return 0
}

// ComputeFromProvider returns the display derived from the clock, ignoring any drag.
func (s *Synchronizer) ComputeFromProvider() Display {
	if !s.state.HasTrack() {
		return Display{CurrentTime: track.FormatTime(0), TotalTime: track.FormatTime(0)}
	}

	duration := s.EffectiveDuration()
	current := s.clock.CurrentTime()
	if math.IsNaN(current) || current < 0 {
		current = 0
	}

	var percent float64
	if duration > 0 {
		percent = clamp(current/duration*100, 0, 100)
	}

	return Display{
		Percent:     percent,
		CurrentTime: track.FormatTime(current),
		TotalTime:   track.FormatTime(duration),
	}
}

// Display returns the current display: the drag preview while dragging,
// otherwise the clock-derived progress.
func (s *Synchronizer) Display() Display {
	if !s.state.IsDragging {
		return s.ComputeFromProvider()
	}

	duration := s.EffectiveDuration()
	return Display{
		Percent:     s.fraction * 100,
		CurrentTime: track.FormatTime(s.fraction * duration),
		TotalTime:   track.FormatTime(duration),
	}
}

// StartDrag begins a seek gesture at pointer x. No-op without a selected track.
func (s *Synchronizer) StartDrag(x float64) bool {
	if !s.state.BeginDrag() {
		return false
	}
	s.fraction = s.FractionAt(x)
	return true
}

// UpdateDrag moves the drag preview to pointer x. No-op when not dragging.
func (s *Synchronizer) UpdateDrag(x float64) bool {
	if !s.state.IsDragging {
		return false
	}
	s.fraction = s.FractionAt(x)
	return true
}

// EndDrag commits the last previewed fraction to the clock, floored to whole seconds.
// Returns the committed time and whether a drag was in progress.
func (s *Synchronizer) EndDrag() (float64, bool) {
	if !s.state.FinishDrag() {
		return 0, false
	}
	if !s.state.HasTrack() {
		return 0, false
	}

	target := math.Floor(s.fraction * s.EffectiveDuration())
	s.clock.SetCurrentTime(target)
	zlog.Debug().Msgf("progress: drag committed: fraction=%.3f time=%.0f", s.fraction, target)
	return target, true
}

// SeekClick commits pointer x to the clock without rounding.
// Returns the committed time and whether a seek happened.
//
// Drag release floors, click does not; both behaviors are kept as-is.
func (s *Synchronizer) SeekClick(x float64) (float64, bool) {
	if !s.state.HasTrack() {
		return 0, false
	}

	f := s.FractionAt(x)
	target := f * s.EffectiveDuration()
	s.clock.SetCurrentTime(target)
	zlog.Debug().Msgf("progress: click seek: fraction=%.3f time=%.3f", f, target)
	return target, true
}

// FractionAt converts pointer x into a clamped fraction of the bar.
func (s *Synchronizer) FractionAt(x float64) float64 {
	if s.bar.Width <= 0 || math.IsNaN(x) {
		return 0
	}
	return clamp((x-s.bar.Left)/s.bar.Width, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
