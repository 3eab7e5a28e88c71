package connect

import (
	"github.com/osa030/playdeck/internal/app/intent"
	"github.com/osa030/playdeck/internal/app/notification"
	"github.com/osa030/playdeck/internal/app/player"
	"github.com/osa030/playdeck/internal/domain/track"
)

// IntentRequest carries one intent to dispatch.
type IntentRequest struct {
	Name   string  `json:"name"`
	Index  int     `json:"index,omitempty"`
	X      float64 `json:"x,omitempty"`
	Left   float64 `json:"left,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Volume int     `json:"volume,omitempty"`
	Code   string  `json:"code,omitempty"`
	Target string  `json:"target,omitempty"`
}

// StateRequest asks for the current state.
type StateRequest struct{}

// SubscribeRequest opens a notification stream.
type SubscribeRequest struct{}

// StateResponse carries a state snapshot.
type StateResponse struct {
	State *PlayerState `json:"state"`
}

// Notification is one streamed player notification.
type Notification struct {
	SequenceNo uint64       `json:"sequence_no"`
	Type       string       `json:"type"`
	State      *PlayerState `json:"state"`
}

// PlayerState is the wire form of player.Snapshot.
type PlayerState struct {
	CurrentTrackIndex int             `json:"current_track_index"`
	Phase             string          `json:"phase"`
	IsPlaying         bool            `json:"is_playing"`
	IsDragging        bool            `json:"is_dragging"`
	Track             *TrackInfo      `json:"track,omitempty"`
	Percent           float64         `json:"percent"`
	CurrentTime       string          `json:"current_time"`
	TotalTime         string          `json:"total_time"`
	Volume            int             `json:"volume"`
	VolumeLevel       string          `json:"volume_level"`
	Theme             string          `json:"theme"`
	CanSkip           bool            `json:"can_skip"`
	Playlist          []*PlaylistItem `json:"playlist"`
}

// TrackInfo is the wire form of a catalog track.
type TrackInfo struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	DurationSeconds float64 `json:"duration_seconds"`
	Source          string  `json:"source"`
}

// PlaylistItem is one row of the playlist view.
type PlaylistItem struct {
	Index  int        `json:"index"`
	Track  *TrackInfo `json:"track"`
	Label  string     `json:"label"`
	Active bool       `json:"active"`
}

func (r *IntentRequest) toIntent() intent.Intent {
	return intent.Intent{
		Name:   intent.Name(r.Name),
		Index:  r.Index,
		X:      r.X,
		Left:   r.Left,
		Width:  r.Width,
		Volume: r.Volume,
		Code:   r.Code,
		Target: r.Target,
	}
}

func toPlayerState(s player.Snapshot) *PlayerState {
	ps := &PlayerState{
		CurrentTrackIndex: s.CurrentTrackIndex,
		Phase:             s.Phase.String(),
		IsPlaying:         s.IsPlaying,
		IsDragging:        s.IsDragging,
		Percent:           s.Progress.Percent,
		CurrentTime:       s.Progress.CurrentTime,
		TotalTime:         s.Progress.TotalTime,
		Volume:            s.Volume,
		VolumeLevel:       s.VolumeLevel.String(),
		Theme:             string(s.Theme),
		CanSkip:           s.CanSkip,
		Playlist:          make([]*PlaylistItem, len(s.Playlist)),
	}
	if s.Track != nil {
		ps.Track = toTrackInfo(*s.Track)
	}
	for i, item := range s.Playlist {
		ps.Playlist[i] = &PlaylistItem{
			Index:  item.Index,
			Track:  toTrackInfo(item.Track),
			Label:  item.Label,
			Active: item.Active,
		}
	}
	return ps
}

func toTrackInfo(t track.Track) *TrackInfo {
	return &TrackInfo{
		ID:              t.ID,
		Title:           t.Title,
		Artist:          t.Artist,
		DurationSeconds: t.DurationSeconds,
		Source:          t.Source,
	}
}

func toNotification(n *notification.Notification) *Notification {
	return &Notification{
		SequenceNo: n.SequenceNo,
		Type:       n.Type,
		State:      toPlayerState(n.Snapshot),
	}
}
