package state

// Player is the mutable player state.
// It is not safe for concurrent use; the owner serializes access.
type Player struct {
	CurrentTrackIndex int  // NoTrack or a catalog index
	IsPlaying         bool // Playback requested
	IsDragging        bool // Seek gesture in progress
}

// New creates the initial state: nothing selected, not playing, not dragging.
func New() *Player {
	return &Player{
		CurrentTrackIndex: NoTrack,
	}
}

// HasTrack returns true if a track is selected.
func (p *Player) HasTrack() bool {
	return p.CurrentTrackIndex != NoTrack
}

// Phase returns the derived phase.
func (p *Player) Phase() Phase {
	switch {
	case !p.HasTrack():
		return PhaseIdle
	case p.IsPlaying:
		return PhasePlaying
	default:
		return PhasePaused
	}
}

// Select marks index as the current track and playing.
func (p *Player) Select(index int) {
	p.CurrentTrackIndex = index
	p.IsPlaying = true
}

// SetPlaying sets the playing flag. Playing without a track is refused.
func (p *Player) SetPlaying(playing bool) bool {
	if playing && !p.HasTrack() {
		return false
	}
	p.IsPlaying = playing
	return true
}

// BeginDrag starts a seek gesture. Refused when no track is selected.
func (p *Player) BeginDrag() bool {
	if !p.HasTrack() {
		return false
	}
	p.IsDragging = true
	return true
}

// FinishDrag ends a seek gesture and reports whether one was in progress.
func (p *Player) FinishDrag() bool {
	was := p.IsDragging
	p.IsDragging = false
	return was
}
