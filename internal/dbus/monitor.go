package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/event"
)

// Monitor observes a daemon's lifecycle signals.
type Monitor struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	handler event.Handler
	ch      chan *dbus.Signal
}

// NewMonitor creates a monitor that passes each lifecycle signal to handler.
func NewMonitor(handler event.Handler, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{handler: handler, logger: logger}
}

// Run subscribes on the session bus and delivers signals until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return m.RunOn(ctx, conn)
}

// RunOn is Run on an existing connection.
func (m *Monitor) RunOn(ctx context.Context, conn *dbus.Conn) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(Interface),
	}
	if err := conn.AddMatchSignal(opts...); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() {
		if err := conn.RemoveMatchSignal(opts...); err != nil {
			m.logger.Debug("failed to remove match rule", "error", err)
		}
	}()

	m.conn = conn
	m.ch = make(chan *dbus.Signal, 16)
	conn.Signal(m.ch)
	defer conn.RemoveSignal(m.ch)

	m.logger.Debug("watching lifecycle signals", "path", ObjectPath)

	for {
		select {
		case sig, ok := <-m.ch:
			if !ok {
				return nil
			}
			ev, ok := parseSignal(sig, time.Now())
			if !ok {
				continue
			}
			if m.handler != nil {
				m.handler(ev)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// parseSignal converts a lifecycle signal into an event. Other signals on the
// connection are rejected.
func parseSignal(sig *dbus.Signal, now time.Time) (event.Event, bool) {
	if sig == nil || sig.Path != ObjectPath {
		return event.Event{}, false
	}
	member, ok := strings.CutPrefix(sig.Name, Interface+".")
	if !ok {
		return event.Event{}, false
	}
	name, ok := EventFor(member)
	if !ok {
		return event.Event{}, false
	}

	var id string
	if len(sig.Body) > 0 {
		id, _ = sig.Body[0].(string)
	}
	return event.Event{Name: name, Source: id, Time: now}, true
}
