package events

import (
	"context"
	"sync"

	"divvy/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated       EventType = "user_created"
	EventTypeParticipantJoined EventType = "participant_joined"
	EventTypePledgeChanged     EventType = "pledge_changed"
	EventTypeEventFinalized    EventType = "event_finalized"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a new user creation
type UserCreatedEvent struct {
	UserID int64
	Email  string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// ParticipantJoinedEvent represents a user joining an expense event
type ParticipantJoinedEvent struct {
	EventID       int64
	ParticipantID int64
	UserID        int64
	DisplayName   string
}

func (e ParticipantJoinedEvent) Type() EventType {
	return EventTypeParticipantJoined
}

// PledgeChangedEvent represents a pledge being created, activated or deactivated.
// Any of these invalidates previously displayed allocations for the event.
type PledgeChangedEvent struct {
	EventID       int64
	PledgeID      int64
	ParticipantID int64
	Kind          models.PledgeKind
	Active        bool
}

func (e PledgeChangedEvent) Type() EventType {
	return EventTypePledgeChanged
}

// EventFinalizedEvent represents an expense event being closed to changes
type EventFinalizedEvent struct {
	EventID     int64
	FinalizedBy int64
}

func (e EventFinalizedEvent) Type() EventType {
	return EventTypeEventFinalized
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
