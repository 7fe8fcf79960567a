// Package bus is a minimal in-process dispatcher. Publish is fire-and-await:
// it runs every handler registered for the event's exact type, in
// registration order, and does not return until all of them have. The bus
// never retries; a handler error aborts the dispatch and surfaces to the
// publisher, which owns compensation.
package bus

import (
	"context"
	"fmt"
	"sync"
)

// Event is an immutable message dispatched by Publish. Handlers must not
// retain or mutate it.
type Event interface {
	EventType() string
}

// Handler consumes one event. Results are not passed back to the publisher;
// handlers act by side effect only.
type Handler func(ctx context.Context, event Event) error

// Subscription identifies one registration so it can be removed again.
type Subscription struct {
	eventType string
	id        uint64
}

type registration struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]registration)}
}

// Register associates a handler with an event type. Multiple handlers per
// type run in registration order.
func (b *Bus) Register(eventType string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{
		id:      b.nextID,
		handler: handler,
	})
	return &Subscription{eventType: eventType, id: b.nextID}
}

// Unregister removes a previously registered handler. Unknown subscriptions
// are a no-op.
func (b *Bus) Unregister(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.eventType]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.handlers[sub.eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish dispatches the event to all handlers of its type and waits for
// each in turn. The first handler error stops the dispatch and is returned
// wrapped with the event type.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	regs := make([]registration, len(b.handlers[event.EventType()]))
	copy(regs, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for _, reg := range regs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := reg.handler(ctx, event); err != nil {
			return fmt.Errorf("dispatch %s: %w", event.EventType(), err)
		}
	}
	return nil
}
