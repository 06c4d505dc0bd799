// Package events provides the in-process event bus used to notify
// connected clients about state changes.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a kind of system event
type EventType string

const (
	TransactionRecorded EventType = "transaction.recorded"
	AccountArchived     EventType = "account.archived"
	GoalCompleted       EventType = "goal.completed"
	MigrationCompleted  EventType = "migration.completed"
	MigrationFailed     EventType = "migration.failed"
	BackupCompleted     EventType = "backup.completed"
	MaintenanceFinished EventType = "maintenance.finished"
)

// Event is a single published event with its payload
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Bus is a simple fan-out event bus. Subscribers receive events on a
// buffered channel; slow subscribers have events dropped rather than
// blocking publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	log    zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
		log:  log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The channel is closed on Unsubscribe.
func (b *Bus) Subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 32)
	b.subs[id] = ch

	b.log.Debug().Int("subscriber_id", id).Msg("Subscriber registered")
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
		b.log.Debug().Int("subscriber_id", id).Msg("Subscriber removed")
	}
}

// Publish delivers an event to all subscribers. Delivery is best-effort:
// a subscriber with a full buffer misses the event.
func (b *Bus) Publish(eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.log.Warn().
				Int("subscriber_id", id).
				Str("event_type", string(eventType)).
				Msg("Subscriber buffer full, event dropped")
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
