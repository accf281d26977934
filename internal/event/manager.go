// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/vedit/internal/logger"
)

// Handler defines the function signature for event subscribers.
// Returning true stops delivery to later handlers.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
	logger.DebugTagf("event", "handler subscribed to %v", eventType)
}

// Dispatch sends an event to all registered handlers for its type,
// synchronously, in subscription order. A nil Manager ignores the call.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	if m == nil {
		return
	}
	m.mu.RLock()
	handlers := append([]Handler(nil), m.handlers[eventType]...)
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	logger.DebugTagf("event", "dispatching %v to %d handler(s)", eventType, len(handlers))

	ev := Event{Type: eventType, Data: data}
	for _, handler := range handlers {
		if handler(ev) {
			break
		}
	}
}
