package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New()

	assert.Equal(t, NoTrack, p.CurrentTrackIndex)
	assert.False(t, p.IsPlaying)
	assert.False(t, p.IsDragging)
	assert.False(t, p.HasTrack())
	assert.Equal(t, PhaseIdle, p.Phase())
}

func TestPlayer_Phase(t *testing.T) {
	tests := []struct {
		name     string
		state    Player
		expected Phase
	}{
		{name: "idle", state: Player{CurrentTrackIndex: NoTrack}, expected: PhaseIdle},
		{name: "paused", state: Player{CurrentTrackIndex: 2}, expected: PhasePaused},
		{name: "playing", state: Player{CurrentTrackIndex: 0, IsPlaying: true}, expected: PhasePlaying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.Phase())
			assert.Equal(t, tt.expected.String(), tt.state.Phase().String())
		})
	}
}

func TestPlayer_PlayingRequiresTrack(t *testing.T) {
	p := New()

	assert.False(t, p.SetPlaying(true))
	assert.False(t, p.IsPlaying)

	p.Select(3)
	assert.True(t, p.IsPlaying)
	assert.True(t, p.SetPlaying(false))
	assert.Equal(t, PhasePaused, p.Phase())
}

func TestPlayer_Drag(t *testing.T) {
	p := New()

	assert.False(t, p.BeginDrag(), "drag without a track must be refused")
	assert.False(t, p.IsDragging)
	assert.False(t, p.FinishDrag())

	p.Select(0)
	assert.True(t, p.BeginDrag())
	assert.True(t, p.IsDragging)
	assert.True(t, p.FinishDrag())
	assert.False(t, p.IsDragging)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "unknown", Phase(42).String())
}
