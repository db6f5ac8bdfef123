package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"factsaura-backend/domain/events"
)

// EventHandler consumes one domain event. Handlers must not block; slow
// consumers should hand off to their own workers.
type EventHandler func(ctx context.Context, event events.DomainEvent)

// Dispatcher is the in-process event bus. Delivery is synchronous and
// best-effort: a panicking handler is isolated and logged, never allowed
// to fail the write that emitted the event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	logger   *zap.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type
func (d *Dispatcher) Subscribe(eventType string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish delivers events to their subscribers
func (d *Dispatcher) Publish(ctx context.Context, evts ...events.DomainEvent) {
	for _, event := range evts {
		d.mu.RLock()
		handlers := d.handlers[event.EventType()]
		d.mu.RUnlock()

		for _, handler := range handlers {
			d.deliver(ctx, event, handler)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event events.DomainEvent, handler EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID()),
				zap.Any("panic", r))
		}
	}()
	handler(ctx, event)
}
