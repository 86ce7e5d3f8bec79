package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventCreated   EventType = "created"
	EventReordered EventType = "reordered"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
	EventRepaired  EventType = "repaired"
	EventReleased  EventType = "released"
	EventCompleted EventType = "completed"
)

// Kinds of entity an event can refer to
const (
	KindCourse   = "course"
	KindModule   = "module"
	KindProject  = "project"
	KindProgress = "progress"
)

// Event represents a committed change
type Event struct {
	Type       EventType
	Kind       string    // Entity kind, see the Kind constants
	GroupID    string    // Chain the entity belongs to (course for modules, module for projects); for filtering
	NodeID     string    // Entity that changed
	Timestamp  time.Time // When the event occurred, set by the broker
	SequenceID int64     // Monotonically increasing sequence number for ordering, set by the broker
}
