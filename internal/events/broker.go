// Path: internal/events/broker.go
package events

import "sync"

// Topics published by the gene service.
const (
	TopicStoreDegraded = "store:degraded"
	TopicGeneCreated   = "gene:created"
	TopicGeneUpdated   = "gene:updated"
	TopicGeneDeleted   = "gene:deleted"
)

// Event represents a message passed through the broker.
type Event struct {
	Topic string
	Data  any
}

// Degraded is the payload of TopicStoreDegraded.
type Degraded struct {
	Op     string
	Reason string
	Err    error
}

// Broker implements a simple in-memory pub/sub system.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	closed      bool
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe creates a new subscription to a topic.
// It returns a read-only channel where events for that topic will be sent.
// The channel is closed by Close.
func (b *Broker) Subscribe(topic string, buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Publish sends an event to all subscribers of a topic.
// Slow subscribers miss events rather than block the publisher.
func (b *Broker) Publish(topic string, data any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	event := Event{Topic: topic, Data: data}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscription channel. Later publishes are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
}
