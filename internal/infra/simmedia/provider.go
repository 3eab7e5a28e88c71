// Package simmedia provides a media provider driven by a software clock.
// It stands in for a real media element: positions advance on a periodic
// tick while playing, and the track ends when the clock reaches its duration.
package simmedia

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playdeck/internal/app/media"
)

const eventBufferSize = 16

// Config represents simulated provider settings.
type Config struct {
	TickIntervalMs      int     `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms" default:"250" validate:"gte=10,lte=5000"`
	MetadataDelayMs     int     `yaml:"metadata_delay_ms" mapstructure:"metadata_delay_ms" validate:"gte=0,lte=60000"`
	Rate                float64 `yaml:"rate" mapstructure:"rate" default:"1" validate:"gt=0,lte=64"`
	FallbackDurationSec float64 `yaml:"fallback_duration_sec" mapstructure:"fallback_duration_sec" default:"30" validate:"gt=0"`
	BlockAutoplay       bool    `yaml:"block_autoplay" mapstructure:"block_autoplay"`
}

// Provider is a simulated media element.
type Provider struct {
	mu sync.Mutex

	config    Config
	durations map[string]float64 // Source → length in seconds

	source        string
	position      float64
	durationKnown bool
	playing       bool
	blocked       bool
	volume        float64

	// Periodic clock and metadata timer for the loaded source
	clockCancel    func()
	metadataCancel func()

	events chan media.Event

	ctx    context.Context
	cancel context.CancelFunc
}

var _ media.Provider = (*Provider)(nil)

// NewFromSettings decodes a settings map into Config, applies defaults and
// validates it, then creates the provider.
func NewFromSettings(settings map[string]any, durations map[string]float64) (*Provider, error) {
	var config Config
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("simmedia: config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return New(config, durations), nil
}

// New creates a provider. durations gives each source's length; sources not
// listed use FallbackDurationSec.
func New(config Config, durations map[string]float64) *Provider {
	ctx, cancel := context.WithCancel(context.Background())
	d := make(map[string]float64, len(durations))
	for k, v := range durations {
		d[k] = v
	}
	return &Provider{
		config:    config,
		durations: d,
		blocked:   config.BlockAutoplay,
		volume:    1,
		events:    make(chan media.Event, eventBufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Events returns the event channel.
func (p *Provider) Events() <-chan media.Event {
	return p.events
}

// Load replaces the source. The clock stops, the position resets and the
// duration is unknown until the metadata timer fires.
func (p *Provider) Load(source string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopClockLocked()
	if p.metadataCancel != nil {
		p.metadataCancel()
		p.metadataCancel = nil
	}

	p.source = source
	p.position = 0
	p.durationKnown = false
	p.playing = false

	delay := time.Duration(p.config.MetadataDelayMs) * time.Millisecond
	p.metadataCancel = p.startWallClockTimer(delay, func(ctx context.Context) {
		p.mu.Lock()
		if ctx.Err() != nil || p.source != source {
			p.mu.Unlock()
			return
		}
		p.durationKnown = true
		p.metadataCancel = nil
		p.mu.Unlock()

		p.emit(ctx, media.Event{Type: media.EventMetadataLoaded, Source: source})
	})
}

// Play starts the clock. Refused while autoplay is blocked.
func (p *Provider) Play() media.StartOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source == "" {
		return media.Blocked
	}
	if p.blocked {
		return media.Blocked
	}
	if p.playing {
		return media.Started
	}

	if p.position >= p.lengthLocked() {
		p.position = 0
	}
	p.playing = true
	p.startClockLocked()
	return media.Started
}

// Pause stops the clock.
func (p *Provider) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = false
	p.stopClockLocked()
}

// SetCurrentTime seeks, clamped to [0, length].
func (p *Provider) SetCurrentTime(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	length := p.lengthLocked()
	switch {
	case seconds < 0:
		seconds = 0
	case seconds > length:
		seconds = length
	}
	p.position = seconds
}

// CurrentTime returns the position in seconds.
func (p *Provider) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Duration returns the loaded source's length, or NaN until metadata has loaded.
func (p *Provider) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.durationKnown {
		return media.UnknownDuration()
	}
	return p.lengthLocked()
}

// SetVolume sets the output volume fraction.
func (p *Provider) SetVolume(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = fraction
}

// Volume returns the output volume fraction.
func (p *Provider) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// IsPlaying reports whether the clock is running.
func (p *Provider) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Unblock lifts the autoplay block, as a user gesture would.
func (p *Provider) Unblock() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked = false
}

// Close stops all timers. Events are no longer delivered.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopClockLocked()
	if p.metadataCancel != nil {
		p.metadataCancel()
		p.metadataCancel = nil
	}
	p.cancel()
}

func (p *Provider) lengthLocked() float64 {
	if d, ok := p.durations[p.source]; ok && media.IsKnownDuration(d) {
		return d
	}
	return p.config.FallbackDurationSec
}

// startClockLocked starts the periodic clock for the loaded source.
// Must be called with lock held.
func (p *Provider) startClockLocked() {
	p.stopClockLocked()

	ctx, cancel := context.WithCancel(p.ctx)
	p.clockCancel = cancel
	interval := time.Duration(p.config.TickIntervalMs) * time.Millisecond
	go func(source string) {
		defer cancel()
		p.runClock(ctx, source, interval)
	}(p.source)
}

// stopClockLocked cancels the periodic clock, if any.
// Must be called with lock held.
func (p *Provider) stopClockLocked() {
	if p.clockCancel != nil {
		p.clockCancel()
		p.clockCancel = nil
	}
}

func (p *Provider) runClock(ctx context.Context, source string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := toWallTime(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := toWallTime(time.Now())
		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		p.position += now.Sub(last).Seconds() * p.config.Rate
		last = now

		ended := false
		if length := p.lengthLocked(); p.position >= length {
			p.position = length
			p.playing = false
			p.clockCancel = nil
			ended = true
		}
		pos := p.position
		p.mu.Unlock()

		p.emit(ctx, media.Event{Type: media.EventTimeUpdate, Source: source, Time: pos})
		if ended {
			zlog.Debug().Msgf("simmedia: source ended: source=%s position=%.2f", source, pos)
			p.emit(ctx, media.Event{Type: media.EventEnded, Source: source, Time: pos})
			return
		}
	}
}

// emit delivers an event unless ctx is done first.
func (p *Provider) emit(ctx context.Context, ev media.Event) {
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}

// startWallClockTimer runs callback after duration, measured on the wall clock.
// Returns a cancel function.
func (p *Provider) startWallClockTimer(duration time.Duration, callback func(ctx context.Context)) func() {
	ctx, cancel := context.WithCancel(p.ctx)

	go func() {
		defer cancel()
		if duration <= 0 {
			callback(ctx)
			return
		}

		endTime := toWallTime(time.Now()).Add(duration)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if toWallTime(time.Now()).After(endTime) {
					callback(ctx)
					return
				}
			}
		}
	}()

	return cancel
}

// toWallTime returns the time with the monotonic clock reading stripped.
func toWallTime(t time.Time) time.Time {
	return time.Unix(t.Unix(), int64(t.Nanosecond()))
}
