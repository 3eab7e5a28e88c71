package intent

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	calls     []string
	index     int
	x         float64
	left      float64
	width     float64
	volume    int
	selectErr error
}

func (r *recordingPlayer) SelectTrack(index int) error {
	r.calls = append(r.calls, "select")
	r.index = index
	return r.selectErr
}
func (r *recordingPlayer) TogglePlayPause() { r.calls = append(r.calls, "toggle") }
func (r *recordingPlayer) PreviousTrack()   { r.calls = append(r.calls, "previous") }
func (r *recordingPlayer) NextTrack()       { r.calls = append(r.calls, "next") }
func (r *recordingPlayer) StartDrag(x float64) {
	r.calls = append(r.calls, "start_drag")
	r.x = x
}
func (r *recordingPlayer) UpdateDrag(x float64) {
	r.calls = append(r.calls, "update_drag")
	r.x = x
}
func (r *recordingPlayer) EndDrag() { r.calls = append(r.calls, "end_drag") }
func (r *recordingPlayer) SeekClick(x float64) {
	r.calls = append(r.calls, "seek_click")
	r.x = x
}
func (r *recordingPlayer) SetVolume(percent int) {
	r.calls = append(r.calls, "set_volume")
	r.volume = percent
}
func (r *recordingPlayer) VolumeUp()   { r.calls = append(r.calls, "volume_up") }
func (r *recordingPlayer) VolumeDown() { r.calls = append(r.calls, "volume_down") }
func (r *recordingPlayer) SetBar(left, width float64) {
	r.calls = append(r.calls, "set_bar")
	r.left, r.width = left, width
}
func (r *recordingPlayer) ToggleTheme() { r.calls = append(r.calls, "toggle_theme") }

func TestDispatcher_Table(t *testing.T) {
	tests := []struct {
		name     string
		intent   Intent
		expected string
	}{
		{name: "select", intent: Intent{Name: SelectTrack, Index: 3}, expected: "select"},
		{name: "toggle", intent: Intent{Name: TogglePlayPause}, expected: "toggle"},
		{name: "previous", intent: Intent{Name: PreviousTrack}, expected: "previous"},
		{name: "next", intent: Intent{Name: NextTrack}, expected: "next"},
		{name: "start drag", intent: Intent{Name: StartDrag, X: 12}, expected: "start_drag"},
		{name: "update drag", intent: Intent{Name: UpdateDrag, X: 40}, expected: "update_drag"},
		{name: "end drag", intent: Intent{Name: EndDrag}, expected: "end_drag"},
		{name: "seek click", intent: Intent{Name: SeekClick, X: 7}, expected: "seek_click"},
		{name: "set volume", intent: Intent{Name: SetVolume, Volume: 30}, expected: "set_volume"},
		{name: "set bar", intent: Intent{Name: SetBar, Left: 5, Width: 300}, expected: "set_bar"},
		{name: "toggle theme", intent: Intent{Name: ToggleTheme}, expected: "toggle_theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingPlayer{}
			d := NewDispatcher(p)

			require.NoError(t, d.Dispatch(tt.intent))
			assert.Equal(t, []string{tt.expected}, p.calls)
		})
	}
}

func TestDispatcher_Arguments(t *testing.T) {
	p := &recordingPlayer{}
	d := NewDispatcher(p)

	require.NoError(t, d.Dispatch(Intent{Name: SelectTrack, Index: 4}))
	assert.Equal(t, 4, p.index)

	require.NoError(t, d.Dispatch(Intent{Name: SeekClick, X: 123.5}))
	assert.Equal(t, 123.5, p.x)

	require.NoError(t, d.Dispatch(Intent{Name: SetBar, Left: 8, Width: 420}))
	assert.Equal(t, 8.0, p.left)
	assert.Equal(t, 420.0, p.width)

	require.NoError(t, d.Dispatch(Intent{Name: SetVolume, Volume: 130}))
	assert.Equal(t, 130, p.volume, "clamping belongs to the player")
}

func TestDispatcher_Keys(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		target   string
		expected []string
	}{
		{name: "space toggles", code: "Space", expected: []string{"toggle"}},
		{name: "left is previous", code: "ArrowLeft", expected: []string{"previous"}},
		{name: "right is next", code: "ArrowRight", expected: []string{"next"}},
		{name: "up raises volume", code: "ArrowUp", expected: []string{"volume_up"}},
		{name: "down lowers volume", code: "ArrowDown", expected: []string{"volume_down"}},
		{name: "unbound key", code: "KeyQ", expected: nil},
		{name: "typing in input", code: "Space", target: "INPUT", expected: nil},
		{name: "typing in textarea", code: "ArrowLeft", target: "textarea", expected: nil},
		{name: "focus on body", code: "ArrowRight", target: "BODY", expected: []string{"next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingPlayer{}
			d := NewDispatcher(p)

			require.NoError(t, d.Dispatch(Intent{Name: Key, Code: tt.code, Target: tt.target}))
			assert.Equal(t, tt.expected, p.calls)
		})
	}
}

func TestDispatcher_Errors(t *testing.T) {
	p := &recordingPlayer{}
	d := NewDispatcher(p)

	err := d.Dispatch(Intent{Name: "rewind"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownIntent))

	err = d.Dispatch(Intent{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIntent))

	err = d.Dispatch(Intent{Name: SelectTrack, Index: -2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIntent))

	err = d.Dispatch(Intent{Name: SetBar, Width: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIntent))

	assert.Empty(t, p.calls)
}

func TestDispatcher_PropagatesPlayerError(t *testing.T) {
	sentinel := errors.New("out of range")
	p := &recordingPlayer{selectErr: sentinel}
	d := NewDispatcher(p)

	err := d.Dispatch(Intent{Name: SelectTrack, Index: 9})
	assert.True(t, errors.Is(err, sentinel))
}

func TestDispatcher_Names(t *testing.T) {
	d := NewDispatcher(&recordingPlayer{})

	names := d.Names()
	assert.Len(t, names, 12)
	assert.Contains(t, names, Key)
	assert.Contains(t, names, SelectTrack)
}

func TestDispatcher_KeyBindings(t *testing.T) {
	d := NewDispatcher(&recordingPlayer{})

	assert.Equal(t, []KeyBinding{
		{Code: "ArrowDown", Action: volumeDown},
		{Code: "ArrowLeft", Action: PreviousTrack},
		{Code: "ArrowRight", Action: NextTrack},
		{Code: "ArrowUp", Action: volumeUp},
		{Code: "Space", Action: TogglePlayPause},
	}, d.KeyBindings())
}
