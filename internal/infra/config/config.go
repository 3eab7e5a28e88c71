// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/playdeck/internal/domain/track"
	"github.com/osa030/playdeck/internal/infra/logger"
)

// MediaTypeSimulated selects the software-clock media provider.
const MediaTypeSimulated = "simulated"

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Control ControlConfig `yaml:"control"`
	Logging logger.Config `yaml:"logging"`
	Player  PlayerConfig  `yaml:"player"`
	Media   MediaConfig   `yaml:"media"`
	Prefs   PrefsConfig   `yaml:"prefs"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// ControlConfig represents remote-control access configuration.
// An empty token leaves the control API open.
type ControlConfig struct {
	Token string `yaml:"token"`
}

// PlayerConfig represents player defaults, used when no preferences are stored.
type PlayerConfig struct {
	DefaultVolume int    `yaml:"default_volume" default:"70" validate:"gte=0,lte=100"`
	DefaultTheme  string `yaml:"default_theme" default:"dark" validate:"oneof=dark light"`
	VolumeStep    int    `yaml:"volume_step" default:"5" validate:"gte=1,lte=100"`
}

// MediaConfig selects the media provider and carries its settings.
type MediaConfig struct {
	Type     string         `yaml:"type" default:"simulated" validate:"oneof=simulated"`
	Settings map[string]any `yaml:"settings"`
}

// PrefsConfig represents the preferences store configuration.
type PrefsConfig struct {
	Path string `yaml:"path" default:"playdeck-prefs.yaml"`
}

// CatalogConfig represents the fixed track list.
type CatalogConfig struct {
	Tracks []TrackConfig `yaml:"tracks" validate:"required,min=1,dive"`
}

// TrackConfig represents a single catalog entry.
type TrackConfig struct {
	ID              int     `yaml:"id" validate:"gte=0"`
	Title           string  `yaml:"title" validate:"required"`
	Artist          string  `yaml:"artist" validate:"required"`
	DurationSeconds float64 `yaml:"duration_seconds" validate:"gt=0"`
	Source          string  `yaml:"source" validate:"required"`
	DurationLabel   string  `yaml:"duration_label"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, then applies environment
// overrides, defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PLAYDECK_CONTROL_TOKEN"); v != "" {
		c.Control.Token = v
	}
	if v := os.Getenv("PLAYDECK_PREFS_PATH"); v != "" {
		c.Prefs.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// Sources key the per-source durations, so they must be unique
	seen := make(map[string]int, len(c.Catalog.Tracks))
	for i, t := range c.Catalog.Tracks {
		if j, ok := seen[t.Source]; ok {
			return errors.Newf("catalog.tracks[%d] source %q duplicates catalog.tracks[%d]", i, t.Source, j)
		}
		seen[t.Source] = i
	}

	return nil
}

// Tracks converts the catalog section into domain tracks.
func (c *Config) Tracks() []track.Track {
	tracks := make([]track.Track, len(c.Catalog.Tracks))
	for i, t := range c.Catalog.Tracks {
		tracks[i] = track.Track{
			ID:              t.ID,
			Title:           t.Title,
			Artist:          t.Artist,
			DurationSeconds: t.DurationSeconds,
			Source:          t.Source,
			DurationLabel:   t.DurationLabel,
		}
	}
	return tracks
}

// Durations returns the declared length of each source in seconds.
func (c *Config) Durations() map[string]float64 {
	m := make(map[string]float64, len(c.Catalog.Tracks))
	for _, t := range c.Catalog.Tracks {
		m[t.Source] = t.DurationSeconds
	}
	return m
}
