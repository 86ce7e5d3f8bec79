package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 100

type subscription struct {
	groupID string // "" receives every group
	ch      chan Event
}

// Broker fans committed changes out to in-process subscribers. Delivery never
// blocks the publisher: a subscriber whose queue is full misses the event.
type Broker struct {
	mu      sync.Mutex
	subs    map[int]*subscription
	nextID  int
	seq     int64
	dropped int64
	closed  bool
	buffer  int
	logger  *slog.Logger
	now     func() time.Time
}

// NewBroker creates a broker. bufferSize <= 0 selects DefaultBufferSize.
func NewBroker(bufferSize int, logger *slog.Logger) *Broker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:   make(map[int]*subscription),
		buffer: bufferSize,
		logger: logger,
		now:    time.Now,
	}
}

// SendEvent stamps the event and delivers it to matching subscribers
func (b *Broker) SendEvent(event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}

	b.seq++
	event.SequenceID = b.seq
	event.Timestamp = b.now()

	for id, sub := range b.subs {
		if sub.groupID != "" && sub.groupID != event.GroupID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped++
			b.logger.Debug("subscriber queue full, event dropped",
				"subscriber", id,
				"event_type", event.Type,
				"sequence_id", event.SequenceID)
		}
	}
	return nil
}

// Subscribe registers a subscriber for groupID ("" for all groups). The
// returned cancel func unregisters it and closes the channel.
func (b *Broker) Subscribe(groupID string) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBrokerClosed
	}

	id := b.nextID
	b.nextID++
	sub := &subscription{groupID: groupID, ch: make(chan Event, b.buffer)}
	b.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub.ch)
			}
		})
	}
	return sub.ch, cancel, nil
}

// Listen subscribes for the lifetime of ctx
func (b *Broker) Listen(ctx context.Context, groupID string) (<-chan Event, error) {
	ch, cancel, err := b.Subscribe(groupID)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, nil
}

// Dropped returns how many deliveries were skipped because of full queues
func (b *Broker) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes every subscriber channel. It is safe to call more than once.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
	return nil
}
