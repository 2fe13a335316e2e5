package events

import (
	"sync"

	"alertcycle/internal/domain"
)

// Handler consumes one lifecycle event. Handlers run on the publisher's
// goroutine, so slow consumers should hand off to their own worker.
type Handler func(event domain.Event)

// Bus fans lifecycle events out to in-process subscribers. The lifecycle
// controller publishes into it; notification and dashboard collaborators
// subscribe.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty event bus.
// Params: none.
// Returns: bus ready for Subscribe/Publish.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers one handler for every subsequent event.
// Params: event handler.
// Returns: none; nil handlers are ignored.
func (b *Bus) Subscribe(handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

// Publish delivers one event to every subscriber. Each handler receives its
// own alert snapshot so one consumer mutating maps cannot leak into another.
// Params: lifecycle event.
// Returns: none.
func (b *Bus) Publish(event domain.Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, handler := range handlers {
		delivery := event
		delivery.Alert = event.Alert.Clone()
		handler(delivery)
	}
}
