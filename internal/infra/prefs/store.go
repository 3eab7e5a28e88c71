// Package prefs provides the key-value store that keeps the volume and
// color scheme across restarts.
package prefs

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	KeyVolume = "playerVolume"
	KeyTheme  = "colorScheme"

	DefaultVolume = 70
	DefaultTheme  = "dark"
)

// Values are the restored settings.
type Values struct {
	Volume int
	Theme  string
}

// Store is a YAML file of string keys and values.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by path. The file is created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored settings. Any read or parse failure yields the
// defaults; restored reports whether the file was read.
func (s *Store) Load() (v Values, restored bool) {
	v = Values{Volume: DefaultVolume, Theme: DefaultTheme}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readLocked()
	if err != nil {
		zlog.Debug().Msgf("prefs: using defaults: %v", err)
		return v, false
	}

	if raw, ok := data[KeyVolume]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			v.Volume = clamp(n)
		}
	}
	if raw := data[KeyTheme]; raw == "light" || raw == "dark" {
		v.Theme = raw
	}
	return v, true
}

// SaveVolume stores the volume percentage.
func (s *Store) SaveVolume(percent int) error {
	return s.set(KeyVolume, strconv.Itoa(clamp(percent)))
}

// SaveTheme stores the color scheme.
func (s *Store) SaveTheme(theme string) error {
	return s.set(KeyTheme, theme)
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readLocked()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Debug().Msgf("prefs: discarding unreadable file: %v", err)
		}
		data = make(map[string]string)
	}
	data[key] = value

	out, err := yaml.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode preferences")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create preferences directory")
		}
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return errors.Wrap(err, "failed to write preferences")
	}
	return nil
}

func (s *Store) readLocked() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	data := make(map[string]string)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "failed to parse preferences")
	}
	return data, nil
}

func clamp(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
