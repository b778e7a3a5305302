package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// EventSchemaVersion is the version of the event schema
const EventSchemaVersion = "1.0"

// Type represents the type of an event
type Type string

// Common event types
const (
	TransferCompleted Type = domain.EventTransferCompleted
	AdminCredited     Type = domain.EventAdminCredited
	SessionResolved   Type = domain.EventSessionResolved
	SessionTimedOut   Type = domain.EventSessionTimedOut
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Type-safe event constructors

// NewTransferCompletedEvent creates a transfer completion event
func NewTransferCompletedEvent(fromID, toID domain.AccountID, amount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TransferCompleted,
		Payload: domain.TransferCompletedPayloadV1{
			FromID: fromID,
			ToID:   toID,
			Amount: amount,
		},
	}
}

// NewAdminCreditedEvent creates an admin credit event
func NewAdminCreditedEvent(accountID domain.AccountID, amount, newBalance int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AdminCredited,
		Payload: domain.AdminCreditedPayloadV1{
			AccountID:  accountID,
			Amount:     amount,
			NewBalance: newBalance,
		},
	}
}

// NewSessionResolvedEvent creates a session resolution event
func NewSessionResolvedEvent(p domain.SessionResolvedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionResolved,
		Payload: p,
	}
}

// NewSessionTimedOutEvent creates a session timeout event
func NewSessionTimedOutEvent(p domain.SessionTimedOutPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionTimedOut,
		Payload: p,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers execute synchronously; publishers that must not block on
	// subscriber failures wrap the bus in a ResilientPublisher.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
