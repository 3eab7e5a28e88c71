package media

// EventType represents a provider event type.
type EventType int

const (
	EventTimeUpdate     EventType = iota // Position advanced
	EventMetadataLoaded                  // Duration became known
	EventEnded                           // Source played to the end
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTimeUpdate:
		return "time_update"
	case EventMetadataLoaded:
		return "metadata_loaded"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is raised by a provider.
type Event struct {
	Type   EventType
	Source string  // Source the event belongs to
	Time   float64 // Position at the time of the event
}
