// Package events distributes sheet lifecycle notifications to interested
// listeners, primarily the websocket push layer.
package events

import (
	"log"
	"sort"
	"sync"

	"github.com/yui-dot/apollyon-sheet/internal/rules"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// EventType identifies what happened to a sheet.
type EventType string

const (
	SheetCreated  EventType = "sheet.created"
	SheetUpdated  EventType = "sheet.updated"
	SheetDeleted  EventType = "sheet.deleted"
	SheetImported EventType = "sheet.imported"
)

// Event carries the sheet state after the change. Sheet is nil for
// SheetDeleted.
type Event struct {
	Type      EventType
	SheetID   string
	Sheet     *sheet.Sheet
	Conflicts *rules.Conflicts
}

// EventListener processes events
type EventListener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus manages event distribution
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventType][]EventListener),
	}
}

// Subscribe adds a listener for specific event types
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)

	// Sort by priority
	sort.Slice(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		// Remove by swapping with last and truncating
		listeners[i] = listeners[len(listeners)-1]
		b.listeners[eventType] = listeners[:len(listeners)-1]

		// Re-sort after removal
		sort.Slice(b.listeners[eventType], func(i, j int) bool {
			return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
		})
		return
	}
}

// Emit sends an event to all registered listeners in priority order. A
// failing listener is logged and skipped so one broken subscriber cannot
// block the rest.
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	listeners := make([]EventListener, len(b.listeners[event.Type]))
	copy(listeners, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener.HandleEvent(event); err != nil {
			log.Printf("EventBus: listener %s failed on %s: %v", listener.ID(), event.Type, err)
		}
	}
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
}
