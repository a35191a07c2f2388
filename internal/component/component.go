// Package component provides the plumbing every widget composes: option merging,
// lifecycle event emission, and registration of interaction handlers on elements.
package component

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/surface"
)

// Hook receives every interaction registered through RegisterHandler.
type Hook interface {
	OnElementEvent(ev event.Event)
}

// Capabilities is what a widget needs from its component base.
type Capabilities interface {
	// Emit publishes a lifecycle event for external subscribers.
	Emit(name string)
	// RegisterHandler routes interaction events on target to hook.
	RegisterHandler(target surface.Element, interaction string, hook Hook)
	// UnregisterHandler removes a registration made by RegisterHandler.
	UnregisterHandler(target surface.Element, interaction string)
}

// Configure applies overrides, in order, to a copy of defaults.
func Configure[T any, O ~func(*T)](defaults T, overrides ...O) T {
	cfg := defaults
	for _, apply := range overrides {
		if apply != nil {
			apply(&cfg)
		}
	}
	return cfg
}

type registration struct {
	target      surface.Element
	interaction string
}

// Base implements Capabilities on top of an event bus.
type Base struct {
	name    string
	version string
	id      string
	logger  *slog.Logger
	bus     *event.Bus

	registrations map[registration]event.Subscription
}

// New creates a component base. The id is a fresh ULID.
func New(name, version string, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	return &Base{
		name:          name,
		version:       version,
		id:            id,
		logger:        logger.With("component", name, "component_id", id),
		bus:           event.NewBus(),
		registrations: make(map[registration]event.Subscription),
	}
}

// Name returns the component name.
func (b *Base) Name() string { return b.name }

// Version returns the component version.
func (b *Base) Version() string { return b.version }

// ID returns the component instance id.
func (b *Base) ID() string { return b.id }

// Logger returns the component's logger, tagged with its name and id.
func (b *Base) Logger() *slog.Logger { return b.logger }

// Emit publishes name to subscribers.
func (b *Base) Emit(name string) {
	b.logger.Debug("emit", "event", name)
	b.bus.Emit(event.Event{Name: name, Source: b.id, Time: time.Now()})
}

// Subscribe registers an observer for a lifecycle event.
func (b *Base) Subscribe(name string, h event.Handler) event.Subscription {
	return b.bus.Subscribe(name, h)
}

// Unsubscribe removes an observer.
func (b *Base) Unsubscribe(name string, sub event.Subscription) {
	b.bus.Unsubscribe(name, sub)
}

// RegisterHandler implements Capabilities. Registering the same target and
// interaction twice replaces the earlier registration.
func (b *Base) RegisterHandler(target surface.Element, interaction string, hook Hook) {
	if target == nil || hook == nil {
		return
	}
	key := registration{target: target, interaction: interaction}
	if sub, ok := b.registrations[key]; ok {
		target.RemoveListener(interaction, sub)
	}
	b.registrations[key] = target.AddListener(interaction, func(ev event.Event) {
		ev.Source = b.id
		hook.OnElementEvent(ev)
	})
	b.logger.Debug("registered handler", "interaction", interaction)
}

// UnregisterHandler implements Capabilities.
func (b *Base) UnregisterHandler(target surface.Element, interaction string) {
	if target == nil {
		return
	}
	key := registration{target: target, interaction: interaction}
	sub, ok := b.registrations[key]
	if !ok {
		return
	}
	target.RemoveListener(interaction, sub)
	delete(b.registrations, key)
	b.logger.Debug("unregistered handler", "interaction", interaction)
}

// Registered reports whether a handler is registered for target and interaction.
func (b *Base) Registered(target surface.Element, interaction string) bool {
	_, ok := b.registrations[registration{target: target, interaction: interaction}]
	return ok
}
