package dbus

import (
	"fmt"

	"github.com/jmylchreest/toastui/internal/event"
)

// EmitLifecycle emits the signal matching a lifecycle event name.
func (s *Server) EmitLifecycle(name, id string) error {
	member, ok := SignalFor(name)
	if !ok {
		return fmt.Errorf("no signal for event %q", name)
	}

	conn := s.Connection()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := conn.Emit(ObjectPath, Interface+"."+member, id); err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", member, err)
	}

	s.logger.Debug("emitted lifecycle signal", "signal", member, "id", id)
	return nil
}

// Forward returns a handler that mirrors widget events as signals. Subscribe
// it to each lifecycle event with Notification.On.
func (s *Server) Forward() event.Handler {
	return func(ev event.Event) {
		if err := s.EmitLifecycle(ev.Name, ev.Source); err != nil {
			s.logger.Warn("failed to forward lifecycle event", "event", ev.Name, "error", err)
		}
	}
}
