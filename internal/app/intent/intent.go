// Package intent maps named presentation intents onto player operations.
package intent

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"
)

// Name identifies an intent.
type Name string

const (
	SelectTrack     Name = "select_track"
	TogglePlayPause Name = "toggle_play_pause"
	PreviousTrack   Name = "previous_track"
	NextTrack       Name = "next_track"
	StartDrag       Name = "start_drag"
	UpdateDrag      Name = "update_drag"
	EndDrag         Name = "end_drag"
	SeekClick       Name = "seek_click"
	SetVolume       Name = "set_volume"
	SetBar          Name = "set_bar"
	ToggleTheme     Name = "toggle_theme"
	Key             Name = "key"

	volumeUp   Name = "volume_up"
	volumeDown Name = "volume_down"
)

// Errors
var (
	ErrUnknownIntent = errors.New("unknown intent")
	ErrInvalidIntent = errors.New("invalid intent")
)

// Intent is one user intent with its arguments.
// Only the fields the named intent uses are read.
type Intent struct {
	Name   Name    `validate:"required"`
	Index  int     `validate:"gte=0"`
	X      float64 // Pointer x for drag and seek intents
	Left   float64 // Bar left edge for set_bar
	Width  float64 `validate:"gte=0"`
	Volume int     // Percentage for set_volume; clamped by the player
	Code   string  // Key code for key intents, e.g. "Space"
	Target string  // Tag name of the focused element for key intents
}

// Player is the set of operations intents are dispatched to.
type Player interface {
	SelectTrack(index int) error
	TogglePlayPause()
	PreviousTrack()
	NextTrack()
	StartDrag(x float64)
	UpdateDrag(x float64)
	EndDrag()
	SeekClick(x float64)
	SetVolume(percent int)
	VolumeUp()
	VolumeDown()
	SetBar(left, width float64)
	ToggleTheme()
}

type handler func(p Player, in Intent) error

// Dispatcher routes intents through a fixed table.
type Dispatcher struct {
	player   Player
	validate *validator.Validate
	table    map[Name]handler
	keys     map[string]Name
}

// NewDispatcher creates a dispatcher for p.
func NewDispatcher(p Player) *Dispatcher {
	return &Dispatcher{
		player:   p,
		validate: validator.New(),
		table: map[Name]handler{
			SelectTrack:     func(p Player, in Intent) error { return p.SelectTrack(in.Index) },
			TogglePlayPause: func(p Player, _ Intent) error { p.TogglePlayPause(); return nil },
			PreviousTrack:   func(p Player, _ Intent) error { p.PreviousTrack(); return nil },
			NextTrack:       func(p Player, _ Intent) error { p.NextTrack(); return nil },
			StartDrag:       func(p Player, in Intent) error { p.StartDrag(in.X); return nil },
			UpdateDrag:      func(p Player, in Intent) error { p.UpdateDrag(in.X); return nil },
			EndDrag:         func(p Player, _ Intent) error { p.EndDrag(); return nil },
			SeekClick:       func(p Player, in Intent) error { p.SeekClick(in.X); return nil },
			SetVolume:       func(p Player, in Intent) error { p.SetVolume(in.Volume); return nil },
			SetBar:          func(p Player, in Intent) error { p.SetBar(in.Left, in.Width); return nil },
			ToggleTheme:     func(p Player, _ Intent) error { p.ToggleTheme(); return nil },
		},
		keys: map[string]Name{
			"Space":      TogglePlayPause,
			"ArrowLeft":  PreviousTrack,
			"ArrowRight": NextTrack,
			"ArrowUp":    volumeUp,
			"ArrowDown":  volumeDown,
		},
	}
}

// Names returns every intent name the dispatcher accepts.
func (d *Dispatcher) Names() []Name {
	names := make([]Name, 0, len(d.table)+1)
	for n := range d.table {
		names = append(names, n)
	}
	return append(names, Key)
}

// KeyBinding describes one bound key.
type KeyBinding struct {
	Code   string
	Action Name
}

// KeyBindings returns the bound keys ordered by code.
func (d *Dispatcher) KeyBindings() []KeyBinding {
	bindings := make([]KeyBinding, 0, len(d.keys))
	for code, name := range d.keys {
		bindings = append(bindings, KeyBinding{Code: code, Action: name})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Code < bindings[j].Code })
	return bindings
}

// Dispatch validates in and runs the matching player operation.
func (d *Dispatcher) Dispatch(in Intent) error {
	if err := d.validate.Struct(in); err != nil {
		return errors.Mark(errors.Wrap(err, "intent validation failed"), ErrInvalidIntent)
	}

	if in.Name == Key {
		return d.dispatchKey(in)
	}

	h, ok := d.table[in.Name]
	if !ok {
		return errors.Wrapf(ErrUnknownIntent, "%q", in.Name)
	}
	zlog.Debug().Msgf("intent: dispatching: name=%s", in.Name)
	return h(d.player, in)
}

// dispatchKey maps a key code to its intent. Keys typed into text fields
// and unbound keys are ignored.
func (d *Dispatcher) dispatchKey(in Intent) error {
	switch strings.ToUpper(in.Target) {
	case "INPUT", "TEXTAREA":
		return nil
	}

	name, ok := d.keys[in.Code]
	if !ok {
		return nil
	}
	zlog.Debug().Msgf("intent: key: code=%s name=%s", in.Code, name)

	switch name {
	case volumeUp:
		d.player.VolumeUp()
		return nil
	case volumeDown:
		d.player.VolumeDown()
		return nil
	}
	return d.table[name](d.player, in)
}
