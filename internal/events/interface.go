package events

// EventPublisher is what services depend on to announce committed changes.
// A nil EventPublisher disables publishing.
type EventPublisher interface {
	// SendEvent delivers an event to current subscribers
	SendEvent(event Event) error

	// Close stops delivery and releases subscribers
	Close() error
}

// Compile-time verification that *Broker implements EventPublisher
var _ EventPublisher = (*Broker)(nil)
