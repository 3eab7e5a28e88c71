package player

// EventType represents a player event type.
type EventType int

const (
	EventTrackSelected  EventType = iota // A track was loaded and started
	EventStateChanged                    // Play/pause changed
	EventProgress                        // Progress display refreshed from the media clock
	EventSeeked                          // Position committed by a click or drag release
	EventDragChanged                     // Seek gesture started or moved
	EventDurationChanged                 // Media reported the track duration
	EventTrackEnded                      // Track played to the end
	EventVolumeChanged                   // Volume changed
	EventThemeChanged                    // Color scheme changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackSelected:
		return "track_selected"
	case EventStateChanged:
		return "state_changed"
	case EventProgress:
		return "progress"
	case EventSeeked:
		return "seeked"
	case EventDragChanged:
		return "drag_changed"
	case EventDurationChanged:
		return "duration_changed"
	case EventTrackEnded:
		return "track_ended"
	case EventVolumeChanged:
		return "volume_changed"
	case EventThemeChanged:
		return "theme_changed"
	default:
		return "unknown"
	}
}

// Event represents a player event with the state after it.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}
