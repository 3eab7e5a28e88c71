// Package state provides the player state owned by the state machine.
package state

// Phase represents the derived state machine phase.
type Phase int

const (
	PhaseIdle    Phase = iota // No track selected
	PhasePaused               // Track selected, not playing
	PhasePlaying              // Track selected and playing
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePaused:
		return "paused"
	case PhasePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// NoTrack is the CurrentTrackIndex value when nothing is selected.
const NoTrack = -1
