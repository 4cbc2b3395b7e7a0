package event

import (
	"sync"

	"github.com/bethropolis/invite/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed; consumption stops delivery to later handlers.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   int
}

type subscription struct {
	id      int
	handler Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler for an event type and returns a function that removes it.
func (m *Manager) Subscribe(eventType Type, handler Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Event Manager: Handler %d subscribed to %v", id, eventType)

	return func() { m.unsubscribe(eventType, id) }
}

func (m *Manager) unsubscribe(eventType Type, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			m.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Dispatch sends an event to all registered handlers for its type, synchronously,
// in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	subs := m.handlers[eventType]
	// Copy so a handler may subscribe or unsubscribe during dispatch.
	handlersCopy := make([]Handler, len(subs))
	for i, s := range subs {
		handlersCopy[i] = s.handler
	}
	m.mu.RUnlock()

	if len(handlersCopy) == 0 {
		return
	}

	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlersCopy))

	e := Event{Type: eventType, Data: data}
	for _, handler := range handlersCopy {
		if handler(e) {
			break
		}
	}
}

// HandlerCount returns the number of subscribers for a type.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}
