// Package event defines the notification lifecycle events and a synchronous bus
// for delivering them to subscribers.
package event

import (
	"sync"
	"time"
)

// Lifecycle events emitted by a notification widget.
const (
	Show   = "show"
	Shown  = "shown"
	Hide   = "hide"
	Hidden = "hidden"
)

// Surface events.
const (
	// TransitionEnd is dispatched by a surface when its visual transition completes.
	TransitionEnd = "transitionend"
	// Click is the only interaction a widget registers on its dismiss control.
	Click = "click"
)

// Event is a single emission.
type Event struct {
	Name   string
	Source string // Emitting component id
	Time   time.Time
}

// Handler receives events.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed.
type Subscription uint64

// Subscriber is implemented by anything observers can subscribe to.
type Subscriber interface {
	Subscribe(name string, h Handler) Subscription
	Unsubscribe(name string, sub Subscription)
}

type entry struct {
	id Subscription
	h  Handler
}

// Bus delivers events synchronously, in subscription order.
// Handlers may subscribe or unsubscribe while an event is being delivered;
// such changes take effect from the next Emit.
type Bus struct {
	mu       sync.RWMutex
	next     Subscription
	handlers map[string][]entry
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]entry)}
}

// Subscribe registers h for events called name.
func (b *Bus) Subscribe(name string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.handlers[name] = append(b.handlers[name], entry{id: b.next, h: h})
	return b.next
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(name string, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[name]
	for i, e := range list {
		if e.id == sub {
			// Copy so an in-flight Emit keeps its snapshot intact
			out := make([]entry, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			if len(out) == 0 {
				delete(b.handlers, name)
			} else {
				b.handlers[name] = out
			}
			return
		}
	}
}

// Emit delivers ev to every handler subscribed to ev.Name.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	list := b.handlers[ev.Name]
	b.mu.RUnlock()

	for _, e := range list {
		e.h(ev)
	}
}

// Len returns the number of handlers subscribed to name.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}
