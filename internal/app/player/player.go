// Package player provides the player state machine: track selection,
// play/pause, seeking and autoplay-on-end over a single media provider.
package player

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playdeck/internal/app/media"
	"github.com/osa030/playdeck/internal/app/progress"
	"github.com/osa030/playdeck/internal/app/state"
	"github.com/osa030/playdeck/internal/domain/catalog"
)

// Errors
var (
	ErrTrackOutOfRange = errors.New("track index out of range")
)

const (
	DefaultVolume     = 70
	DefaultVolumeStep = 5
	eventBufferSize   = 32
)

// Preferences persists user settings.
// Save failures are logged and dropped; they never change player state.
type Preferences interface {
	SaveVolume(percent int) error
	SaveTheme(theme string) error
}

// Config holds player configuration.
type Config struct {
	InitialVolume int   // Restored volume percentage
	Theme         Theme // Restored color scheme
	VolumeStep    int   // Keyboard volume step
}

// Player is the state machine. All operations run to completion under one
// mutex, so state invariants hold between operations.
type Player struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	provider media.Provider
	prefs    Preferences

	state    *state.Player
	progress *progress.Synchronizer

	volume     int
	volumeStep int
	theme      Theme

	eventCh chan Event
	closed  bool
}

// New creates a player over the catalog and provider. prefs may be nil.
func New(cat *catalog.Catalog, provider media.Provider, prefs Preferences, cfg Config) *Player {
	st := state.New()
	step := cfg.VolumeStep
	if step <= 0 {
		step = DefaultVolumeStep
	}
	theme := cfg.Theme
	if theme == "" {
		theme = ThemeDark
	}

	p := &Player{
		catalog:    cat,
		provider:   provider,
		prefs:      prefs,
		state:      st,
		progress:   progress.NewSynchronizer(st, provider),
		volume:     clampVolume(cfg.InitialVolume),
		volumeStep: step,
		theme:      theme,
		eventCh:    make(chan Event, eventBufferSize),
	}
	provider.SetVolume(float64(p.volume) / 100)
	return p
}

// Events returns the event channel.
func (p *Player) Events() <-chan Event {
	return p.eventCh
}

// Run consumes provider events until ctx is done or the provider closes its channel.
func (p *Player) Run(ctx context.Context) {
	events := p.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.HandleEvent(ev)
		}
	}
}

// HandleEvent applies one provider event.
func (p *Player) HandleEvent(ev media.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case media.EventTimeUpdate:
		// The drag preview owns the display until release.
		if p.state.IsDragging {
			return
		}
		p.sendEventLocked(EventProgress)

	case media.EventMetadataLoaded:
		if !p.isCurrentSourceLocked(ev.Source) {
			return
		}
		p.sendEventLocked(EventDurationChanged)

	case media.EventEnded:
		if !p.isCurrentSourceLocked(ev.Source) {
			zlog.Debug().Msgf("player: ignoring stale ended event: source=%s", ev.Source)
			return
		}
		p.sendEventLocked(EventTrackEnded)
		p.nextTrackLocked()
		p.playLocked()
	}
}

// SelectTrack loads the track at index and starts it from 0.
// Selecting the current track restarts it.
func (p *Player) SelectTrack(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= p.catalog.Len() {
		return errors.Wrapf(ErrTrackOutOfRange, "index %d (catalog size %d)", index, p.catalog.Len())
	}
	p.selectTrackLocked(index)
	return nil
}

// Play starts playback of the selected track. No-op when idle.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked()
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

// TogglePlayPause toggles playback. When idle it starts the first track.
func (p *Player) TogglePlayPause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.HasTrack() {
		if p.catalog.IsEmpty() {
			return
		}
		p.selectTrackLocked(0)
		p.playLocked()
		return
	}

	if p.state.IsPlaying {
		p.pauseLocked()
	} else {
		p.playLocked()
	}
}

// PreviousTrack selects the previous track, wrapping to the last one.
func (p *Player) PreviousTrack() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.previousTrackLocked()
}

// NextTrack selects the next track, wrapping to the first one.
func (p *Player) NextTrack() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextTrackLocked()
}

// SetBar updates the progress bar geometry used to map pointer positions.
func (p *Player) SetBar(left, width float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress.SetBar(progress.Bar{Left: left, Width: width})
}

// StartDrag begins a seek gesture at pointer x.
func (p *Player) StartDrag(x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progress.StartDrag(x) {
		p.sendEventLocked(EventDragChanged)
	}
}

// UpdateDrag moves the seek gesture preview to pointer x.
func (p *Player) UpdateDrag(x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progress.UpdateDrag(x) {
		p.sendEventLocked(EventDragChanged)
	}
}

// EndDrag commits the seek gesture.
func (p *Player) EndDrag() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.progress.EndDrag(); ok {
		p.sendEventLocked(EventSeeked)
	}
}

// SeekClick seeks to pointer x.
func (p *Player) SeekClick(x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.progress.SeekClick(x); ok {
		p.sendEventLocked(EventSeeked)
	}
}

// SetVolume sets the volume percentage, clamped to [0,100].
func (p *Player) SetVolume(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVolumeLocked(percent)
}

// VolumeUp raises the volume by one step.
func (p *Player) VolumeUp() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVolumeLocked(p.volume + p.volumeStep)
}

// VolumeDown lowers the volume by one step.
func (p *Player) VolumeDown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVolumeLocked(p.volume - p.volumeStep)
}

// ToggleTheme switches between the dark and light color schemes.
func (p *Player) ToggleTheme() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.theme = p.theme.Toggled()
	if p.prefs != nil {
		if err := p.prefs.SaveTheme(string(p.theme)); err != nil {
			zlog.Debug().Msgf("player: theme not persisted: %v", err)
		}
	}
	p.sendEventLocked(EventThemeChanged)
}

// Snapshot returns the current read model.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Close closes the event channel. The player must not be used afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.eventCh)
}

func (p *Player) selectTrackLocked(index int) {
	t, ok := p.catalog.At(index)
	if !ok {
		return
	}

	p.state.Select(index)
	p.progress.SetDeclaredDuration(t.DurationSeconds)
	p.provider.Load(t.Source)
	p.provider.SetCurrentTime(0)

	zlog.Debug().Msgf("player: track selected: index=%d id=%d title=%s", index, t.ID, t.Title)
	p.sendEventLocked(EventTrackSelected)

	p.playLocked()
}

func (p *Player) playLocked() {
	if !p.state.SetPlaying(true) {
		return
	}

	if outcome := p.provider.Play(); outcome != media.Started {
		// State keeps reporting playing; a later user gesture can unblock output.
		zlog.Debug().Msgf("player: provider start ignored: outcome=%s index=%d", outcome, p.state.CurrentTrackIndex)
	}
	p.sendEventLocked(EventStateChanged)
}

func (p *Player) pauseLocked() {
	p.state.SetPlaying(false)
	p.provider.Pause()
	p.sendEventLocked(EventStateChanged)
}

func (p *Player) previousTrackLocked() {
	if p.catalog.IsEmpty() {
		return
	}
	wasPlaying := p.state.IsPlaying
	p.selectTrackLocked(p.catalog.Previous(p.state.CurrentTrackIndex))
	if wasPlaying {
		p.playLocked()
	}
}

func (p *Player) nextTrackLocked() {
	if p.catalog.IsEmpty() {
		return
	}
	wasPlaying := p.state.IsPlaying
	p.selectTrackLocked(p.catalog.Next(p.state.CurrentTrackIndex))
	if wasPlaying {
		p.playLocked()
	}
}

func (p *Player) setVolumeLocked(percent int) {
	p.volume = clampVolume(percent)
	p.provider.SetVolume(float64(p.volume) / 100)
	if p.prefs != nil {
		if err := p.prefs.SaveVolume(p.volume); err != nil {
			zlog.Debug().Msgf("player: volume not persisted: %v", err)
		}
	}
	p.sendEventLocked(EventVolumeChanged)
}

func (p *Player) isCurrentSourceLocked(source string) bool {
	t, ok := p.catalog.At(p.state.CurrentTrackIndex)
	return ok && t.Source == source
}

func (p *Player) snapshotLocked() Snapshot {
	tracks := p.catalog.Tracks()
	items := make([]PlaylistItem, len(tracks))
	for i, t := range tracks {
		items[i] = PlaylistItem{
			Index:  i,
			Track:  t,
			Label:  t.Label(),
			Active: i == p.state.CurrentTrackIndex,
		}
	}

	s := Snapshot{
		CurrentTrackIndex: p.state.CurrentTrackIndex,
		IsPlaying:         p.state.IsPlaying,
		IsDragging:        p.state.IsDragging,
		Phase:             p.state.Phase(),
		Progress:          p.progress.Display(),
		Volume:            p.volume,
		VolumeLevel:       levelOf(p.volume),
		Theme:             p.theme,
		CanSkip:           p.state.HasTrack(),
		Playlist:          items,
	}
	if t, ok := p.catalog.At(p.state.CurrentTrackIndex); ok {
		s.Track = &t
	}
	return s
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (p *Player) sendEventLocked(t EventType) {
	if p.closed {
		return
	}
	select {
	case p.eventCh <- Event{Type: t, Snapshot: p.snapshotLocked()}:
	default:
		// Channel full, drop event; consumers re-read state on the next one
	}
}

func clampVolume(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
